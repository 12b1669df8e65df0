package calc

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investor_dashboard/pkg/core/assumption"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/workbook"
)

func TestMain(m *testing.M) {
	logging.SetLogger(nil)
	os.Exit(m.Run())
}

type kv struct {
	label string
	value workbook.Cell
}

func assumptions(rows ...kv) *assumption.Map {
	records := [][]workbook.Cell{{workbook.Text("Parameter"), workbook.Text("Value")}}
	for _, r := range rows {
		records = append(records, []workbook.Cell{workbook.Text(r.label), r.value})
	}
	return assumption.Extract(workbook.NewSheet(assumption.SheetName, records))
}

func num(label string, v float64) kv { return kv{label, workbook.Number(v)} }

func bowlAssumptions() *assumption.Map {
	return assumptions(
		num(assumption.LabelPrice, 25),
		num(assumption.LabelAcaiCost, 5),
		num(assumption.LabelFruitsCost, 3),
		num(assumption.LabelGranolaCost, 1),
		num(assumption.LabelYogurtCost, 1),
		num(assumption.LabelPackagingCost, 1),
		num(assumption.LabelRent, 3000),
		num(assumption.LabelSalaries, 4000),
		num(assumption.LabelUtilities, 500),
		num(assumption.LabelMarketing, 500),
		num(assumption.LabelWorkingDays, 26),
	)
}

func mustValue(t *testing.T, a Amount) float64 {
	t.Helper()
	v, ok := a.Value()
	require.True(t, ok, "expected a defined amount")
	return v
}

func TestComputeUnitEconomics_ReferenceModel(t *testing.T) {
	ue := ComputeUnitEconomics(bowlAssumptions())

	assert.Equal(t, 25.0, mustValue(t, ue.Price))
	assert.Equal(t, 11.0, mustValue(t, ue.VariableCost))
	assert.Equal(t, 14.0, mustValue(t, ue.GrossMargin))
	assert.InDelta(t, 0.56, mustValue(t, ue.GrossMarginPct), 1e-12)
	assert.Equal(t, 8000.0, mustValue(t, ue.FixedCosts))
	assert.InDelta(t, 571.43, mustValue(t, ue.BreakEvenMonth), 0.005)
	assert.InDelta(t, 21.98, mustValue(t, ue.BreakEvenDay), 0.005)
	assert.Equal(t, 26.0, ue.WorkingDays)
}

func TestComputeUnitEconomics_RowsFixedOrder(t *testing.T) {
	rows := ComputeUnitEconomics(bowlAssumptions()).Rows()

	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.Metric
	}
	want := []string{
		"Price (P)",
		"Variable cost per bowl (V)",
		"Gross margin per unit (P-V)",
		"Gross margin %",
		"Fixed costs / month",
		"Break-even units / month",
		"Break-even units / day",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("metric labels mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeUnitEconomics_NoVariableComponents(t *testing.T) {
	ue := ComputeUnitEconomics(assumptions(num(assumption.LabelPrice, 20)))

	assert.Equal(t, 0.0, mustValue(t, ue.VariableCost))
	for _, line := range ue.VariableLines {
		assert.True(t, line.Defaulted, line.Label)
	}
	assert.Equal(t, 20.0, mustValue(t, ue.GrossMargin))
	assert.Equal(t, 0.0, mustValue(t, ue.BreakEvenMonth), "no fixed costs, nothing to recover")
}

func TestComputeUnitEconomics_ZeroPrice(t *testing.T) {
	ue := ComputeUnitEconomics(assumptions(
		num(assumption.LabelPrice, 0),
		num(assumption.LabelFruitsCost, 4),
		num(assumption.LabelRent, 1000),
	))

	assert.Equal(t, -4.0, mustValue(t, ue.GrossMargin))
	assert.False(t, ue.GrossMarginPct.IsDefined(), "price 0 leaves margin % undefined")
	assert.Equal(t, -250.0, mustValue(t, ue.BreakEvenMonth))
}

func TestComputeUnitEconomics_ZeroMargin(t *testing.T) {
	ue := ComputeUnitEconomics(assumptions(
		num(assumption.LabelPrice, 10),
		num(assumption.LabelFruitsCost, 10),
		num(assumption.LabelRent, 1000),
	))

	assert.True(t, ue.GrossMargin.IsZero())
	assert.Equal(t, 0.0, mustValue(t, ue.GrossMarginPct))
	assert.False(t, ue.BreakEvenMonth.IsDefined())
	assert.False(t, ue.BreakEvenDay.IsDefined())
}

func TestComputeUnitEconomics_MissingPrice(t *testing.T) {
	ue := ComputeUnitEconomics(assumptions(num(assumption.LabelRent, 1000)))

	assert.False(t, ue.Price.IsDefined())
	assert.False(t, ue.GrossMargin.IsDefined())
	assert.False(t, ue.GrossMarginPct.IsDefined())
	assert.False(t, ue.BreakEvenMonth.IsDefined())
	assert.False(t, ue.BreakEvenDay.IsDefined())
	assert.Equal(t, 1000.0, mustValue(t, ue.FixedCosts))
}

func TestComputeUnitEconomics_EmptyMap(t *testing.T) {
	ue := ComputeUnitEconomics(nil)

	assert.False(t, ue.Price.IsDefined())
	assert.Equal(t, 0.0, mustValue(t, ue.VariableCost))
	assert.Equal(t, 0.0, mustValue(t, ue.FixedCosts))
	assert.Equal(t, DefaultWorkingDays, ue.WorkingDays)
}

func TestComputeUnitEconomics_AcaiAlias(t *testing.T) {
	ue := ComputeUnitEconomics(assumptions(
		num(assumption.LabelPrice, 25),
		num("Acai cost per bowl", 6),
	))
	assert.Equal(t, 6.0, mustValue(t, ue.VariableCost))
	assert.False(t, ue.VariableLines[0].Defaulted)
}

func TestComputeUnitEconomics_TextPrice(t *testing.T) {
	ue := ComputeUnitEconomics(assumptions(kv{assumption.LabelPrice, workbook.Text("tbd")}))
	assert.False(t, ue.Price.IsDefined())
}

func TestWorkingDays(t *testing.T) {
	assert.Equal(t, 26.0, WorkingDays(assumptions()))
	assert.Equal(t, 26.0, WorkingDays(assumptions(num(assumption.LabelWorkingDays, 0))))
	assert.Equal(t, 22.0, WorkingDays(assumptions(num(assumption.LabelWorkingDays, 22))))
}
