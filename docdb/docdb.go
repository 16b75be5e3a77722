// Package docdb provides a lightweight client for the Lumen document
// database: named collections of JSON documents addressed by ID.
package docdb

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lumen-labs/lumen-go/core"
)

// Endpoint paths.
const (
	addPath      = "/api/collections/data/add"
	updatePath   = "/api/collections/data/update"
	deletePath   = "/api/collections/data/delete"
	fetchPath    = "/api/collections/data/fetch"
	fetchAllPath = "/api/collections/data/fetch/all"
	queryPath    = "/api/collections/data/query"
)

// Validation errors.
var (
	ErrCollectionRequired = errors.New("collection name is required")
	ErrDocIDRequired      = errors.New("document id is required")
	ErrFieldsRequired     = errors.New("fields are required: pass at least one field to Set")
	ErrUpdatesRequired    = errors.New("updates are required: pass at least one update operation")
)

// Database is the entry point for document operations.
type Database struct {
	client *core.Client
}

// New creates a Database bound to client.
func New(client *core.Client) *Database {
	return &Database{client: client}
}

// Collection returns a handle for the named collection. No remote call is
// made; collections exist implicitly once written to.
func (d *Database) Collection(name string) *Collection {
	return &Collection{db: d, name: name}
}

// Collection addresses one named collection.
type Collection struct {
	db   *Database
	name string
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Doc returns a handle for the document with the given ID.
func (c *Collection) Doc(id string) *Doc {
	return &Doc{col: c, id: id}
}

// NewDoc returns a handle with a freshly generated document ID.
func (c *Collection) NewDoc() *Doc {
	return &Doc{col: c, id: uuid.NewString()}
}

// Document is one stored record.
type Document struct {
	ID     string         `json:"doc_id"`
	Fields map[string]any `json:"fields"`
}

// listResponse is the wire shape of fetch-all and query replies.
type listResponse struct {
	core.Response
	Documents []Document `json:"documents"`
}

// Documents fetches every document in the collection.
func (c *Collection) Documents(ctx context.Context) ([]Document, error) {
	if c.name == "" {
		return nil, ErrCollectionRequired
	}

	body := map[string]any{"collection": c.name}
	var resp listResponse
	if err := c.db.client.PostJSON(ctx, fetchAllPath, body, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// Query fetches the documents matching every filter.
func (c *Collection) Query(ctx context.Context, filters ...Filter) ([]Document, error) {
	if c.name == "" {
		return nil, ErrCollectionRequired
	}

	wire := make([]map[string]any, len(filters))
	for i, f := range filters {
		w, err := f.wire()
		if err != nil {
			return nil, err
		}
		wire[i] = w
	}

	body := map[string]any{
		"collection": c.name,
		"filters":    wire,
	}
	var resp listResponse
	if err := c.db.client.PostJSON(ctx, queryPath, body, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}
