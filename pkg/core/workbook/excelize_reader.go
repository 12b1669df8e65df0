package workbook

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelizeReader parses xlsx documents with excelize, keeping native cell types.
type ExcelizeReader struct{}

func (ExcelizeReader) Read(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]*Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}

		records := make([][]Cell, len(rows))
		for r, row := range rows {
			cells := make([]Cell, len(row))
			for c, raw := range row {
				cells[c] = excelizeCell(f, name, c+1, r+1, raw)
			}
			records[r] = cells
		}
		sheets = append(sheets, NewSheet(name, records))
	}
	return New(sheets...), nil
}

func excelizeCell(f *excelize.File, sheet string, col, row int, raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Empty()
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err == nil {
		typ, typErr := f.GetCellType(sheet, axis)
		if typErr == nil {
			switch typ {
			case excelize.CellTypeBool:
				return Bool(raw == "1" || strings.EqualFold(raw, "true"))
			case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
				return Text(raw)
			case excelize.CellTypeError:
				return Empty()
			}
		}
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return Number(v)
	}
	return Text(raw)
}
