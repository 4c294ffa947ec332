package client

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrDocumentClosed is returned when a released document handle is reused.
var ErrDocumentClosed = errors.New("document_closed")

// Document is a transient handle over generated PDF bytes. The previous
// implementation leaked object URLs until the next generation; here the
// handle is explicit: use it, then Close it (or let the next quotation
// replace it).
type Document struct {
	Name string
	data []byte
}

func newDocument(name string, data []byte) *Document {
	return &Document{Name: name, data: data}
}

// Bytes returns the raw PDF content.
func (d *Document) Bytes() ([]byte, error) {
	if d.data == nil {
		return nil, ErrDocumentClosed
	}
	return d.data, nil
}

// SaveTo materializes the document under dir using its canonical filename
// and returns the written path.
func (d *Document) SaveTo(dir string) (string, error) {
	if d.data == nil {
		return "", ErrDocumentClosed
	}
	path := filepath.Join(dir, d.Name)
	if err := os.WriteFile(path, d.data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Close releases the underlying bytes. Safe to call more than once.
func (d *Document) Close() error {
	d.data = nil
	return nil
}
