package core

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Form accumulates fields and file parts for a multipart/form-data request.
// Encoding is deferred so the same form produces identical bytes on retry.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	name    string
	payload *FilePayload
}

// AddField appends a plain text field.
func (f *Form) AddField(name, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

// AddFile appends a file part. The part's Content-Type comes from the
// payload's detected MIME type.
func (f *Form) AddFile(name string, payload *FilePayload) {
	f.files = append(f.files, formFile{name: name, payload: payload})
}

// Encode renders the form and returns the Content-Type (with boundary) and
// the encoded body.
func (f *Form) Encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return "", nil, fmt.Errorf("write field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(file.name), escapeQuotes(file.payload.Filename)))
		h.Set("Content-Type", file.payload.MIME)

		part, err := w.CreatePart(h)
		if err != nil {
			return "", nil, fmt.Errorf("create part %s: %w", file.name, err)
		}
		if _, err := part.Write(file.payload.Data); err != nil {
			return "", nil, fmt.Errorf("write part %s: %w", file.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return w.FormDataContentType(), buf.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
