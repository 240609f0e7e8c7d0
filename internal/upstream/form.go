package upstream

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// Form accumulates multipart fields in insertion order. The upstream's
// create/update endpoints only accept multipart bodies, including the
// repeated coordinates[] field.
type Form struct {
	fields []field
}

type field struct {
	name  string
	value string
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Set(name, value string) {
	f.fields = append(f.fields, field{name: name, value: value})
}

// Add appends a repeated field occurrence (coordinates[]).
func (f *Form) Add(name, value string) {
	f.fields = append(f.fields, field{name: name, value: value})
}

// Encode renders the multipart body and returns it with its content
// type (which carries the boundary).
func (f *Form) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fl := range f.fields {
		if err := w.WriteField(fl.name, fl.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", fl.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
