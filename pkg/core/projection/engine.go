// Package projection builds the 12-month operating forecast from the assumption
// sheet and the unit economics.
package projection

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"investor_dashboard/pkg/core/assumption"
	"investor_dashboard/pkg/core/calc"
)

// Forecast is the full projection. It is built in one pass and never edited
// row by row; new inputs produce a new Forecast.
type Forecast struct {
	Drivers Drivers `json:"drivers"`
	Rows    []Row   `json:"rows"`
}

// DriversFrom reads the projection drivers. Zero or missing sheet values fall
// back to the defaults; costs come from the typed unit economics, with an
// undefined figure counted as zero.
func DriversFrom(m *assumption.Map, ue calc.UnitEconomics) Drivers {
	days := int(calc.WorkingDays(m))
	if days <= 0 {
		days = DefaultWorkingDays
	}
	return Drivers{
		WorkingDays:         days,
		Price:               nonZeroOr(m, assumption.LabelPrice, 0),
		StartUnitsPerDay:    nonZeroOr(m, assumption.LabelStartingUnits, DefaultStartUnitsPerDay),
		MonthlyGrowth:       nonZeroOr(m, assumption.LabelGrowthRate, DefaultMonthlyGrowth),
		VariableCostPerUnit: ue.VariableCost.Or(0),
		FixedCostsPerMonth:  ue.FixedCosts.Or(0),
	}
}

// ComputeForecast projects twelve months from the sheet and its unit economics.
func ComputeForecast(m *assumption.Map, ue calc.UnitEconomics) Forecast {
	return Project(DriversFrom(m, ue))
}

// Project compounds daily volume month over month and articulates each month's
// P&L down to cumulative operating profit.
func Project(d Drivers) Forecast {
	rows := make([]Row, 0, ForecastMonths)
	unitsPerDay := d.StartUnitsPerDay

	for month := 1; month <= ForecastMonths; month++ {
		rows = append(rows, projectMonth(month, unitsPerDay, d))
		unitsPerDay *= 1 + d.MonthlyGrowth
	}

	operating := make([]float64, len(rows))
	for i, r := range rows {
		operating[i] = r.OperatingProfit
	}
	cumulative := floats.CumSum(make([]float64, len(operating)), operating)
	for i := range rows {
		rows[i].CumulativeProfit = cumulative[i]
	}

	return Forecast{Drivers: d, Rows: rows}
}

func projectMonth(month int, unitsPerDay float64, d Drivers) Row {
	// Money columns use the exact volume; the row shows whole units.
	unitsPerMonth := unitsPerDay * float64(d.WorkingDays)
	revenue := unitsPerMonth * d.Price
	cogs := unitsPerMonth * d.VariableCostPerUnit
	grossProfit := revenue - cogs

	return Row{
		Month:           month,
		UnitsPerDay:     unitsPerDay,
		UnitsPerMonth:   int(unitsPerMonth),
		Revenue:         revenue,
		COGS:            cogs,
		GrossProfit:     grossProfit,
		FixedCosts:      d.FixedCostsPerMonth,
		OperatingProfit: grossProfit - d.FixedCostsPerMonth,
	}
}

func nonZeroOr(m *assumption.Map, label string, def float64) float64 {
	v, ok := m.Number(label)
	if !ok || v == 0 {
		return def
	}
	return v
}

// DisplayUnitsPerDay rounds units/day to two decimals.
func (r Row) DisplayUnitsPerDay() float64 {
	return math.Round(r.UnitsPerDay*100) / 100
}

// Months returns the month indexes, 1-based.
func (f Forecast) Months() []int {
	out := make([]int, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r.Month
	}
	return out
}

func (f Forecast) OperatingProfitSeries() []float64 {
	out := make([]float64, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r.OperatingProfit
	}
	return out
}

func (f Forecast) CumulativeProfitSeries() []float64 {
	out := make([]float64, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r.CumulativeProfit
	}
	return out
}

// FirstProfitableMonth is the first month with a non-negative operating profit.
func (f Forecast) FirstProfitableMonth() (int, bool) {
	for _, r := range f.Rows {
		if r.OperatingProfit >= 0 {
			return r.Month, true
		}
	}
	return 0, false
}

// PaybackMonth is the first month after which cumulative profit stays non-negative.
func (f Forecast) PaybackMonth() (int, bool) {
	month := 0
	for i := len(f.Rows) - 1; i >= 0; i-- {
		if f.Rows[i].CumulativeProfit < 0 {
			break
		}
		month = f.Rows[i].Month
	}
	return month, month != 0
}

// Totals sums the horizon.
func (f Forecast) Totals() Totals {
	var t Totals
	for _, r := range f.Rows {
		t.Units += r.UnitsPerMonth
		t.Revenue += r.Revenue
		t.COGS += r.COGS
		t.GrossProfit += r.GrossProfit
		t.FixedCosts += r.FixedCosts
		t.OperatingProfit += r.OperatingProfit
	}
	return t
}
