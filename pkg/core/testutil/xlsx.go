// Package testutil builds in-memory spreadsheet fixtures for tests.
package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// SheetSpec describes one sheet of a generated workbook. Rows[0] is the header row.
type SheetSpec struct {
	Name string
	Rows [][]interface{}
}

// BuildXLSX writes the given sheets, in order, into an xlsx document.
func BuildXLSX(t testing.TB, sheets ...SheetSpec) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, spec := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", spec.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(spec.Name); err != nil {
			t.Fatalf("new sheet %q: %v", spec.Name, err)
		}

		for r, row := range spec.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(spec.Name, axis, v); err != nil {
					t.Fatalf("set %s!%s: %v", spec.Name, axis, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// BowlAssumptions is the reference Assumptions sheet: price 25, variable cost 11,
// fixed costs 8000, 26 working days, 30 bowls/day growing 10% a month.
func BowlAssumptions() SheetSpec {
	return SheetSpec{
		Name: "Assumptions",
		Rows: [][]interface{}{
			{"Parameter", "Value"},
			{"Price per bowl", 25},
			{"Açaí cost per bowl", 5},
			{"Fruits cost per bowl", 3},
			{"Granola cost per bowl", 1},
			{"Yogurt cost per bowl", 1},
			{"Packaging/others cost per bowl", 1},
			{"Fixed: Rent/month", 3000},
			{"Fixed: Salaries/month", 4000},
			{"Fixed: Utilities/month", 500},
			{"Fixed: Marketing/month", 500},
			{"Working days per month", 26},
			{"Starting units per day (Month 1)", 30},
			{"Monthly growth rate", 0.10},
		},
	}
}

// BowlWorkbook is a full document with an Assumptions sheet and an unrelated sheet.
func BowlWorkbook(t testing.TB) []byte {
	t.Helper()
	return BuildXLSX(t,
		BowlAssumptions(),
		SheetSpec{Name: "UseOfFunds", Rows: [][]interface{}{{"Item", "Amount"}, {"Equipment", 12000}}},
	)
}
