package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"investor_dashboard/pkg/core/logging"
)

// ErrUnreadable wraps every failure to open or parse a document.
var ErrUnreadable = errors.New("workbook unreadable")

// Reader parses a complete in-memory document.
type Reader interface {
	Read(data []byte) (*Workbook, error)
}

// Reader names accepted by ReaderByName.
const (
	ReaderExcelize = "excelize"
	ReaderStream   = "stream"
)

// ReaderByName resolves a configured reader name. An empty name selects excelize.
func ReaderByName(name string) (Reader, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ReaderExcelize:
		return ExcelizeReader{}, nil
	case ReaderStream:
		return StreamReader{}, nil
	}
	return nil, fmt.Errorf("unknown workbook reader %q", name)
}

// Loader turns documents into workbooks. It never returns a nil workbook:
// on failure the workbook is empty and the error says why.
type Loader struct {
	reader Reader
}

// NewLoader creates a loader backed by r. A nil reader falls back to excelize.
func NewLoader(r Reader) *Loader {
	if r == nil {
		r = ExcelizeReader{}
	}
	return &Loader{reader: r}
}

// Load drains src fully before parsing, so the caller may release it right after.
func (l *Loader) Load(src io.Reader) (*Workbook, error) {
	if src == nil {
		return New(), fmt.Errorf("%w: no document", ErrUnreadable)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return New(), fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return l.LoadBytes(data)
}

// LoadFile opens, reads and closes the document at path.
func (l *Loader) LoadFile(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return New(), fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()
	return l.Load(f)
}

// LoadBytes parses an in-memory document.
func (l *Loader) LoadBytes(data []byte) (wb *Workbook, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), fmt.Errorf("%w: empty document", ErrUnreadable)
	}

	defer func() {
		if rec := recover(); rec != nil {
			logging.Logf("[LOADER] parser panic recovered: %v", rec)
			wb = New()
			err = fmt.Errorf("%w: parser failure: %v", ErrUnreadable, rec)
		}
	}()

	parsed, readErr := l.reader.Read(data)
	if readErr != nil {
		return New(), fmt.Errorf("%w: %w", ErrUnreadable, readErr)
	}
	if parsed == nil {
		parsed = New()
	}
	logging.Logf("[LOADER] loaded %d sheet(s): %s", parsed.Len(), strings.Join(parsed.Names(), ", "))
	return parsed, nil
}

var defaultLoader = NewLoader(ExcelizeReader{})

// Load reads a document with the default (excelize) reader.
func Load(src io.Reader) (*Workbook, error) { return defaultLoader.Load(src) }

// LoadBytes parses a document with the default reader.
func LoadBytes(data []byte) (*Workbook, error) { return defaultLoader.LoadBytes(data) }

// LoadFile opens a document from disk with the default reader.
func LoadFile(path string) (*Workbook, error) { return defaultLoader.LoadFile(path) }
