package calc

import (
	"gonum.org/v1/gonum/floats"

	"investor_dashboard/pkg/core/assumption"
)

// DefaultWorkingDays applies when the sheet has no usable working-days figure.
const DefaultWorkingDays = 26.0

// Display labels of the unit-economics table, in their fixed order.
const (
	MetricPrice          = "Price (P)"
	MetricVariableCost   = "Variable cost per bowl (V)"
	MetricGrossMargin    = "Gross margin per unit (P-V)"
	MetricGrossMarginPct = "Gross margin %"
	MetricFixedCosts     = "Fixed costs / month"
	MetricBreakEvenMonth = "Break-even units / month"
	MetricBreakEvenDay   = "Break-even units / day"
)

// CostLine is one cost component as read from the sheet.
// Defaulted marks a component that was absent and counted as zero.
type CostLine struct {
	Label     string  `json:"label"`
	Amount    float64 `json:"amount"`
	Defaulted bool    `json:"defaulted"`
}

// UnitEconomics is the per-bowl profitability summary.
type UnitEconomics struct {
	Price          Amount `json:"price"`
	VariableCost   Amount `json:"variable_cost"`
	GrossMargin    Amount `json:"gross_margin"`
	GrossMarginPct Amount `json:"gross_margin_pct"`
	FixedCosts     Amount `json:"fixed_costs"`
	BreakEvenMonth Amount `json:"break_even_units_month"`
	BreakEvenDay   Amount `json:"break_even_units_day"`

	WorkingDays   float64    `json:"working_days"`
	VariableLines []CostLine `json:"variable_lines"`
	FixedLines    []CostLine `json:"fixed_lines"`
}

// MetricRow is one line of the display table.
type MetricRow struct {
	Metric string `json:"metric"`
	Value  Amount `json:"value"`
}

// Rows renders the fixed-order display table.
func (u UnitEconomics) Rows() []MetricRow {
	return []MetricRow{
		{MetricPrice, u.Price},
		{MetricVariableCost, u.VariableCost},
		{MetricGrossMargin, u.GrossMargin},
		{MetricGrossMarginPct, u.GrossMarginPct},
		{MetricFixedCosts, u.FixedCosts},
		{MetricBreakEvenMonth, u.BreakEvenMonth},
		{MetricBreakEvenDay, u.BreakEvenDay},
	}
}

var variableCostLabels = []string{
	assumption.LabelAcaiCost,
	assumption.LabelFruitsCost,
	assumption.LabelGranolaCost,
	assumption.LabelYogurtCost,
	assumption.LabelPackagingCost,
}

var fixedCostLabels = []string{
	assumption.LabelRent,
	assumption.LabelSalaries,
	assumption.LabelUtilities,
	assumption.LabelMarketing,
}

// ComputeUnitEconomics derives the unit economics from the assumption sheet.
// Cost components default to zero; price has no default, and every ratio that
// depends on a missing price or a zero divisor is left undefined.
func ComputeUnitEconomics(m *assumption.Map) UnitEconomics {
	price := Undefined()
	if v, ok := m.Number(assumption.LabelPrice); ok {
		price = Known(v)
	}

	variable := costLines(m, variableCostLabels)
	fixed := costLines(m, fixedCostLabels)

	variableCost := Known(sumLines(variable))
	fixedCosts := Known(sumLines(fixed))

	grossMargin := price.Sub(variableCost)
	grossMarginPct := grossMargin.Div(price)
	breakEvenMonth := fixedCosts.Div(grossMargin)

	days := WorkingDays(m)
	breakEvenDay := breakEvenMonth.Div(Known(days))

	return UnitEconomics{
		Price:          price,
		VariableCost:   variableCost,
		GrossMargin:    grossMargin,
		GrossMarginPct: grossMarginPct,
		FixedCosts:     fixedCosts,
		BreakEvenMonth: breakEvenMonth,
		BreakEvenDay:   breakEvenDay,
		WorkingDays:    days,
		VariableLines:  variable,
		FixedLines:     fixed,
	}
}

// WorkingDays reads the working days per month; zero, negative or missing
// figures fall back to DefaultWorkingDays.
func WorkingDays(m *assumption.Map) float64 {
	days, ok := m.Number(assumption.LabelWorkingDays)
	if !ok || days <= 0 {
		return DefaultWorkingDays
	}
	return days
}

func costLines(m *assumption.Map, labels []string) []CostLine {
	lines := make([]CostLine, 0, len(labels))
	for _, label := range labels {
		v, ok := m.Number(label)
		// The açaí row has historically also been written without diacritics.
		if label == assumption.LabelAcaiCost && (!ok || v == 0) {
			if alias, aliasOK := m.Number(assumption.LabelAcaiCostAlias); aliasOK {
				v, ok = alias, true
			}
		}
		if !ok {
			v = 0
		}
		lines = append(lines, CostLine{Label: label, Amount: v, Defaulted: !ok})
	}
	return lines
}

func sumLines(lines []CostLine) float64 {
	values := make([]float64, len(lines))
	for i, l := range lines {
		values[i] = l.Amount
	}
	return floats.Sum(values)
}
