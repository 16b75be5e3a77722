package docdb

import (
	"context"

	"github.com/lumen-labs/lumen-go/core"
)

// Doc addresses one document. It carries an in-memory shadow of the last
// assigned fields, used only to merge partial updates before sending; it is
// never read back from the server. Doc is not safe for concurrent use.
type Doc struct {
	col    *Collection
	id     string
	shadow map[string]any
}

// ID returns the document ID.
func (d *Doc) ID() string {
	return d.id
}

// WriteResult is the outcome of a write merged with the success envelope.
type WriteResult struct {
	core.Response
	DocID          string `json:"doc_id"`
	ProcessingTime string `json:"processing_time"`
}

// getResponse is the wire shape of a fetch reply.
type getResponse struct {
	core.Response
	Document Document `json:"document"`
}

func (d *Doc) validate() error {
	if d.col == nil || d.col.name == "" {
		return ErrCollectionRequired
	}
	if d.id == "" {
		return ErrDocIDRequired
	}
	return nil
}

// Set creates the document or replaces its fields entirely.
func (d *Doc) Set(ctx context.Context, fields map[string]any) (*WriteResult, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrFieldsRequired
	}

	body := map[string]any{
		"collection": d.col.name,
		"doc_id":     d.id,
		"fields":     fields,
	}

	var resp WriteResult
	if err := d.col.db.client.PostJSON(ctx, addPath, body, &resp); err != nil {
		return nil, err
	}

	d.shadow = make(map[string]any, len(fields))
	for k, v := range fields {
		d.shadow[k] = v
	}
	return &resp, nil
}

// Update applies partial updates to the document. Plain field assignments
// are merged with the shadow of previously assigned fields; array and
// counter operations are sent as explicit operations.
func (d *Doc) Update(ctx context.Context, ops ...Update) (*WriteResult, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, ErrUpdatesRequired
	}

	fields := make(map[string]any, len(d.shadow))
	for k, v := range d.shadow {
		fields[k] = v
	}

	var operations []map[string]any
	for _, op := range ops {
		w, err := op.wire()
		if err != nil {
			return nil, err
		}
		if op.op == opSet {
			fields[op.field] = op.value
			continue
		}
		operations = append(operations, w)
	}

	body := map[string]any{
		"collection": d.col.name,
		"doc_id":     d.id,
		"fields":     fields,
	}
	if len(operations) > 0 {
		body["operations"] = operations
	}

	var resp WriteResult
	if err := d.col.db.client.PostJSON(ctx, updatePath, body, &resp); err != nil {
		return nil, err
	}

	d.shadow = fields
	return &resp, nil
}

// Get fetches the document.
func (d *Doc) Get(ctx context.Context) (*Document, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	body := map[string]any{
		"collection": d.col.name,
		"doc_id":     d.id,
	}

	var resp getResponse
	if err := d.col.db.client.PostJSON(ctx, fetchPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Document, nil
}

// Delete removes the document and returns the write outcome.
func (d *Doc) Delete(ctx context.Context) (*WriteResult, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	body := map[string]any{
		"collection": d.col.name,
		"doc_id":     d.id,
	}

	var resp WriteResult
	if err := d.col.db.client.PostJSON(ctx, deletePath, body, &resp); err != nil {
		return nil, err
	}

	d.shadow = nil
	return &resp, nil
}
