package pipeline

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultDocument is the model read when nothing has been uploaded.
const DefaultDocument = "Financial_Model_Acai_Lite.xlsx"

// Document is a spreadsheet held in memory for one run.
type Document struct {
	Name string
	Data []byte
}

// Digest identifies the document content. An empty document has no digest.
func (d *Document) Digest() string {
	if d == nil || len(d.Data) == 0 {
		return ""
	}
	return fmt.Sprintf("%x", md5.Sum(d.Data))
}

// ReadDocument reads the document at path. A missing file is reported as
// (nil, nil): the dashboard then renders without financials.
func ReadDocument(path string) (*Document, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Document{Name: filepath.Base(path), Data: data}, nil
}
