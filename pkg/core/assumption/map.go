package assumption

import (
	"strings"

	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/workbook"
)

// Entry is one label/value row as read from the sheet.
// Shadowed marks a row whose key already appeared higher up; it is ignored by lookups.
type Entry struct {
	Label    string
	Key      Key
	Value    workbook.Cell
	Shadowed bool
}

// Map is an immutable key -> value lookup built from one sheet.
// A nil *Map behaves as an empty map.
type Map struct {
	values  map[Key]workbook.Cell
	entries []Entry
}

// Extract reads column 0 as labels and column 1 as values. Tables narrower than
// two columns yield an empty map. When a key repeats, the first row wins.
func Extract(sheet *workbook.Sheet) *Map {
	m := &Map{values: make(map[Key]workbook.Cell)}
	if sheet == nil || sheet.Width() < 2 || len(sheet.Rows) == 0 {
		return m
	}

	for i := range sheet.Rows {
		label := strings.TrimSpace(sheet.At(i, 0).String())
		key := NormalizeKey(label)
		if key == "" {
			continue
		}

		entry := Entry{Label: label, Key: key, Value: sheet.At(i, 1)}
		if _, seen := m.values[key]; seen {
			entry.Shadowed = true
			logging.Logf("[ASSUMPTIONS] duplicate label %q on data row %d ignored; first occurrence wins", label, i+1)
		} else {
			m.values[key] = entry.Value
		}
		m.entries = append(m.entries, entry)
	}
	return m
}

// Len is the number of distinct keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.values)
}

// Entries returns the source rows in sheet order, shadowed duplicates included.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Lookup returns the stored cell for a human label, whatever its content.
func (m *Map) Lookup(label string) (workbook.Cell, bool) {
	if m == nil {
		return workbook.Empty(), false
	}
	key := NormalizeKey(label)
	if key == "" {
		return workbook.Empty(), false
	}
	v, ok := m.values[key]
	return v, ok
}

// Get returns the value stored under label, or def when the label is absent
// or its value is missing.
func (m *Map) Get(label string, def workbook.Cell) workbook.Cell {
	v, ok := m.Lookup(label)
	if !ok || v.IsMissing() {
		return def
	}
	return v
}

// Number reads label as a number. Non-numeric text counts as missing.
func (m *Map) Number(label string) (float64, bool) {
	v, ok := m.Lookup(label)
	if !ok {
		return 0, false
	}
	return v.Float()
}

// NumberOr reads label as a number, falling back to def.
func (m *Map) NumberOr(label string, def float64) float64 {
	if v, ok := m.Number(label); ok {
		return v
	}
	return def
}
