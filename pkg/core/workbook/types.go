// Package workbook loads spreadsheet documents into ordered, typed sheets.
// Cells keep the kind the source format gave them; coercion is left to callers.
package workbook

import (
	"math"
	"strconv"
	"strings"
)

// CellKind tags the native type of a loaded cell.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindNumber
	KindText
	KindBool
)

// Cell is a single spreadsheet value.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
	Bool   bool
}

func Empty() Cell { return Cell{Kind: KindEmpty} }
func Number(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }
func Bool(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }
func (c Cell) IsNumber() bool { return c.Kind == KindNumber }
func (c Cell) IsText() bool { return c.Kind == KindText }

// IsMissing reports whether the cell carries no usable value: empty, or a NaN number.
func (c Cell) IsMissing() bool {
	switch c.Kind {
	case KindEmpty:
		return true
	case KindNumber:
		return math.IsNaN(c.Number)
	}
	return false
}

// Float returns the numeric reading of the cell. Text is accepted when it parses as
// a finite number, optionally with a trailing percent sign ("10%" -> 0.10).
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return 0, false
		}
		return c.Number, true
	case KindBool:
		if c.Bool {
			return 1, true
		}
		return 0, true
	case KindText:
		return parseNumericText(c.Text)
	}
	return 0, false
}

// String renders the cell the way a table would show it.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindText:
		return c.Text
	case KindBool:
		if c.Bool {
			return "TRUE"
		}
		return "FALSE"
	}
	return ""
}

func parseNumericText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		scale = 0.01
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v * scale, true
}

// Sheet is one tab of a workbook. The first row of the source is its header row.
type Sheet struct {
	Name   string
	Header []Cell
	Rows   [][]Cell
}

// NewSheet splits records into a header (first record) and data rows.
func NewSheet(name string, records [][]Cell) *Sheet {
	s := &Sheet{Name: name}
	if len(records) == 0 {
		return s
	}
	s.Header = records[0]
	s.Rows = records[1:]
	return s
}

// Width is the number of columns the sheet spans across header and data rows.
func (s *Sheet) Width() int {
	if s == nil {
		return 0
	}
	w := len(s.Header)
	for _, row := range s.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// At returns the data cell at (row, col), or an empty cell when out of range.
func (s *Sheet) At(row, col int) Cell {
	if s == nil || row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return Empty()
	}
	return s.Rows[row][col]
}

// Workbook is an ordered set of sheets.
type Workbook struct {
	sheets []*Sheet
	index  map[string]int
}

// New builds a workbook preserving the given sheet order.
func New(sheets ...*Sheet) *Workbook {
	wb := &Workbook{index: make(map[string]int, len(sheets))}
	for _, s := range sheets {
		if s == nil {
			continue
		}
		if _, dup := wb.index[s.Name]; dup {
			continue
		}
		wb.index[s.Name] = len(wb.sheets)
		wb.sheets = append(wb.sheets, s)
	}
	return wb
}

// Sheet looks up a sheet by its exact name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	if w == nil {
		return nil, false
	}
	i, ok := w.index[name]
	if !ok {
		return nil, false
	}
	return w.sheets[i], true
}

// Names returns sheet names in document order.
func (w *Workbook) Names() []string {
	if w == nil {
		return nil
	}
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

func (w *Workbook) Len() int {
	if w == nil {
		return 0
	}
	return len(w.sheets)
}
