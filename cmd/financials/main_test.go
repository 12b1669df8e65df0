package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investor_dashboard/pkg/core/export"
	"investor_dashboard/pkg/core/testutil"
)

func writeWorkbook(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRun_Unit(t *testing.T) {
	path := writeWorkbook(t, testutil.BowlWorkbook(t))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-file", path}, &out))

	s := out.String()
	assert.Contains(t, s, "Price (P)")
	assert.Contains(t, s, "25.00")
	assert.Contains(t, s, "56.0%")
	assert.Contains(t, s, "8,000.00")
	assert.Contains(t, s, "21.98")
}

func TestRun_Forecast(t *testing.T) {
	path := writeWorkbook(t, testutil.BowlWorkbook(t))

	for _, reader := range []string{"excelize", "stream"} {
		t.Run(reader, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, run([]string{"-file", path, "-mode", "forecast", "-reader", reader}, &out))

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			require.GreaterOrEqual(t, len(lines), 13)
			assert.Contains(t, lines[0], "Cumulative Profit")
			assert.Contains(t, lines[1], "2,920.00")
			assert.Contains(t, out.String(), "Payback month: 1")
		})
	}
}

func TestRun_JSON(t *testing.T) {
	path := writeWorkbook(t, testutil.BowlWorkbook(t))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-file", path, "-mode", "json"}, &out))

	var r export.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.True(t, r.HasFinancials)
	assert.Len(t, r.Forecast, 12)
	assert.Equal(t, []string{"Assumptions", "UseOfFunds"}, r.Sheets)
}

func TestRun_TOON(t *testing.T) {
	path := writeWorkbook(t, testutil.BowlWorkbook(t))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-file", path, "-mode", "toon"}, &out))
	assert.Contains(t, out.String(), "cumulative_profit")
}

func TestRun_Check(t *testing.T) {
	data := testutil.BuildXLSX(t, testutil.SheetSpec{
		Name: "Assumptions",
		Rows: [][]interface{}{
			{"Parameter", "Value"},
			{"Price per bowl", 25},
			{"Price per bowl", 30},
			{"Acai cost per bowl", 5},
		},
	})
	path := writeWorkbook(t, data)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-file", path, "-mode", "check"}, &out))

	s := out.String()
	assert.Contains(t, s, "Success:")
	assert.Contains(t, s, `duplicate label "Price per bowl" ignored`)
	assert.Contains(t, s, `"Fixed: Rent/month" missing`)
	assert.NotContains(t, s, `"Açaí cost per bowl" missing`)
}

func TestRun_Failures(t *testing.T) {
	noAssumptions := writeWorkbook(t, testutil.BuildXLSX(t, testutil.SheetSpec{
		Name: "Other",
		Rows: [][]interface{}{{"a", "b"}},
	}))
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a workbook"), 0o644))

	var out bytes.Buffer
	err := run([]string{"-file", noAssumptions, "-mode", "check"}, &out)
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out.String(), "no Assumptions sheet")

	err = run([]string{"-file", corrupt}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error al leer el Excel: ")

	err = run([]string{"-file", filepath.Join(dir, "missing.xlsx")}, &out)
	assert.ErrorContains(t, err, "not found")

	err = run([]string{"-file", noAssumptions, "-mode", "pie"}, &out)
	assert.ErrorContains(t, err, "unknown mode")

	err = run([]string{"-file", noAssumptions, "-reader", "csv"}, &out)
	assert.ErrorContains(t, err, "unknown workbook reader")
}
