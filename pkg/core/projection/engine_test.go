package projection_test

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investor_dashboard/pkg/core/assumption"
	"investor_dashboard/pkg/core/calc"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/projection"
	"investor_dashboard/pkg/core/workbook"
)

func TestMain(m *testing.M) {
	logging.SetLogger(nil)
	os.Exit(m.Run())
}

func sheetMap(values map[string]float64) *assumption.Map {
	records := [][]workbook.Cell{{workbook.Text("Parameter"), workbook.Text("Value")}}
	for label, v := range values {
		records = append(records, []workbook.Cell{workbook.Text(label), workbook.Number(v)})
	}
	return assumption.Extract(workbook.NewSheet(assumption.SheetName, records))
}

func bowlModel() *assumption.Map {
	return sheetMap(map[string]float64{
		assumption.LabelPrice:         25,
		assumption.LabelAcaiCost:      5,
		assumption.LabelFruitsCost:    3,
		assumption.LabelGranolaCost:   1,
		assumption.LabelYogurtCost:    1,
		assumption.LabelPackagingCost: 1,
		assumption.LabelRent:          3000,
		assumption.LabelSalaries:      4000,
		assumption.LabelUtilities:     500,
		assumption.LabelMarketing:     500,
		assumption.LabelWorkingDays:   26,
		assumption.LabelStartingUnits: 30,
		assumption.LabelGrowthRate:    0.10,
	})
}

func bowlForecast(t *testing.T) projection.Forecast {
	t.Helper()
	m := bowlModel()
	return projection.ComputeForecast(m, calc.ComputeUnitEconomics(m))
}

func TestComputeForecast_FirstMonths(t *testing.T) {
	f := bowlForecast(t)
	require.Len(t, f.Rows, projection.ForecastMonths)

	m1 := f.Rows[0]
	assert.Equal(t, 1, m1.Month)
	assert.Equal(t, 30.0, m1.DisplayUnitsPerDay())
	assert.Equal(t, 780, m1.UnitsPerMonth)
	assert.InDelta(t, 19500, m1.Revenue, 1e-9)
	assert.InDelta(t, 8580, m1.COGS, 1e-9)
	assert.InDelta(t, 10920, m1.GrossProfit, 1e-9)
	assert.Equal(t, 8000.0, m1.FixedCosts)
	assert.InDelta(t, 2920, m1.OperatingProfit, 1e-9)
	assert.InDelta(t, 2920, m1.CumulativeProfit, 1e-9)

	m2 := f.Rows[1]
	assert.Equal(t, 33.0, m2.DisplayUnitsPerDay())
	assert.Equal(t, 858, m2.UnitsPerMonth)
	assert.InDelta(t, 2920+m2.OperatingProfit, m2.CumulativeProfit, 1e-9)
}

func TestComputeForecast_CumulativeIsRunningSum(t *testing.T) {
	f := bowlForecast(t)

	running := 0.0
	for _, r := range f.Rows {
		running += r.OperatingProfit
		assert.InDelta(t, running, r.CumulativeProfit, 1e-6, "month %d", r.Month)
	}
}

func TestComputeForecast_CompoundGrowth(t *testing.T) {
	f := bowlForecast(t)

	for _, r := range f.Rows {
		want := 30 * math.Pow(1.10, float64(r.Month-1))
		assert.InDelta(t, want, r.UnitsPerDay, 1e-9, "month %d", r.Month)
		assert.InDelta(t, want, r.DisplayUnitsPerDay(), 0.005, "month %d", r.Month)
	}
}

func TestComputeForecast_FixedCostsConstant(t *testing.T) {
	f := bowlForecast(t)
	for _, r := range f.Rows {
		assert.Equal(t, 8000.0, r.FixedCosts)
	}
}

func TestComputeForecast_Defaults(t *testing.T) {
	f := projection.ComputeForecast(nil, calc.ComputeUnitEconomics(nil))

	d := f.Drivers
	assert.Equal(t, projection.DefaultWorkingDays, d.WorkingDays)
	assert.Equal(t, 0.0, d.Price)
	assert.Equal(t, projection.DefaultStartUnitsPerDay, d.StartUnitsPerDay)
	assert.Equal(t, projection.DefaultMonthlyGrowth, d.MonthlyGrowth)
	assert.Equal(t, 0.0, d.VariableCostPerUnit)
	assert.Equal(t, 0.0, d.FixedCostsPerMonth)

	require.Len(t, f.Rows, 12)
	for _, r := range f.Rows {
		assert.Equal(t, 0.0, r.Revenue)
		assert.Equal(t, 0.0, r.CumulativeProfit)
	}
}

func TestDriversFrom_ZeroFallsBackToDefaults(t *testing.T) {
	m := sheetMap(map[string]float64{
		assumption.LabelStartingUnits: 0,
		assumption.LabelGrowthRate:    0,
		assumption.LabelWorkingDays:   0,
	})
	d := projection.DriversFrom(m, calc.ComputeUnitEconomics(m))
	assert.Equal(t, 30.0, d.StartUnitsPerDay)
	assert.Equal(t, 0.10, d.MonthlyGrowth)
	assert.Equal(t, 26, d.WorkingDays)
}

func TestDriversFrom_UndefinedCostsCountAsZero(t *testing.T) {
	ue := calc.UnitEconomics{VariableCost: calc.Undefined(), FixedCosts: calc.Undefined()}
	d := projection.DriversFrom(sheetMap(map[string]float64{assumption.LabelPrice: 10}), ue)
	assert.Equal(t, 0.0, d.VariableCostPerUnit)
	assert.Equal(t, 0.0, d.FixedCostsPerMonth)
	assert.Equal(t, 10.0, d.Price)
}

func TestDriversFrom_FractionalWorkingDaysTruncate(t *testing.T) {
	m := sheetMap(map[string]float64{assumption.LabelWorkingDays: 25.7})
	d := projection.DriversFrom(m, calc.ComputeUnitEconomics(m))
	assert.Equal(t, 25, d.WorkingDays)
}

func TestForecast_Summaries(t *testing.T) {
	f := projection.Project(projection.Drivers{
		WorkingDays:         20,
		Price:               10,
		StartUnitsPerDay:    10,
		MonthlyGrowth:       0.5,
		VariableCostPerUnit: 5,
		FixedCostsPerMonth:  2000,
	})

	// Month 1: 200 units, OP -1000. Month 2: 300 units, OP -500.
	// Month 3: 450 units, OP 250. Month 4: 675 units, OP 1375, cumulative 125.
	first, ok := f.FirstProfitableMonth()
	require.True(t, ok)
	assert.Equal(t, 3, first)

	payback, ok := f.PaybackMonth()
	require.True(t, ok)
	assert.Equal(t, 4, payback)

	totals := f.Totals()
	assert.InDelta(t, 24000, totals.FixedCosts, 1e-9)
	assert.InDelta(t, f.Rows[11].CumulativeProfit, totals.OperatingProfit, 1e-6)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, f.Months())
	assert.Len(t, f.OperatingProfitSeries(), 12)
	assert.Equal(t, f.Rows[4].CumulativeProfit, f.CumulativeProfitSeries()[4])
}

func TestForecast_NeverProfitable(t *testing.T) {
	f := projection.Project(projection.Drivers{
		WorkingDays: 26, Price: 5, StartUnitsPerDay: 1, MonthlyGrowth: 0.01,
		VariableCostPerUnit: 4, FixedCostsPerMonth: 10000,
	})
	_, ok := f.FirstProfitableMonth()
	assert.False(t, ok)
	_, ok = f.PaybackMonth()
	assert.False(t, ok)
}
