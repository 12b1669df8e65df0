package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thedatashed/xlsxreader"
	"github.com/xuri/excelize/v2"
)

// StreamReader parses xlsx documents row by row with xlsxreader.
// Cell kinds are inferred from the cell text: numbers parse as numbers,
// everything else is text.
type StreamReader struct{}

func (StreamReader) Read(data []byte) (*Workbook, error) {
	xl, err := xlsxreader.NewReader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}

	sheets := make([]*Sheet, 0, len(xl.Sheets))
	for _, name := range xl.Sheets {
		var records [][]Cell
		var rowErr error
		// Drain the channel even after an error so the producer goroutine can exit.
		for row := range xl.ReadRows(name) {
			if row.Error != nil {
				if rowErr == nil {
					rowErr = row.Error
				}
				continue
			}
			records = append(records, streamRow(row.Cells))
		}
		if rowErr != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, rowErr)
		}
		sheets = append(sheets, NewSheet(name, records))
	}
	return New(sheets...), nil
}

// streamRow expands xlsxreader's sparse cells into a dense row.
func streamRow(cells []xlsxreader.Cell) []Cell {
	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		col, err := excelize.ColumnNameToNumber(c.Column)
		if err != nil || col < 1 {
			continue
		}
		for len(out) < col {
			out = append(out, Empty())
		}
		out[col-1] = streamValue(c.Value)
	}
	return out
}

func streamValue(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(v)
	}
	return Text(raw)
}
