// Package export flattens a pipeline result into a report for the JSON API,
// the command line and the TOON export.
package export

import (
	toon "github.com/mateuszkardas/toon-go"

	"investor_dashboard/pkg/core/calc"
	"investor_dashboard/pkg/core/pipeline"
	"investor_dashboard/pkg/core/projection"
)

type Assumption struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Shadowed bool   `json:"shadowed,omitempty"`
}

// Report is the serializable view of a pipeline result.
type Report struct {
	Source               string              `json:"source"`
	Sheets               []string            `json:"sheets"`
	Error                string              `json:"error,omitempty"`
	HasFinancials        bool                `json:"has_financials"`
	Metrics              []calc.MetricRow    `json:"unit_economics,omitempty"`
	Assumptions          []Assumption        `json:"assumptions,omitempty"`
	Drivers              *projection.Drivers `json:"drivers,omitempty"`
	Forecast             []projection.Row    `json:"forecast,omitempty"`
	Totals               *projection.Totals  `json:"totals,omitempty"`
	FirstProfitableMonth *int                `json:"first_profitable_month"`
	PaybackMonth         *int                `json:"payback_month"`
}

// NewReport builds the report for res. A nil result gives an empty report.
func NewReport(res *pipeline.Result) Report {
	r := Report{Sheets: []string{}}
	if res == nil {
		return r
	}
	r.Source = res.Source
	if res.Sheets != nil {
		r.Sheets = res.Sheets
	}
	r.Error = res.LoadError

	for _, e := range res.Assumptions.Entries() {
		r.Assumptions = append(r.Assumptions, Assumption{Label: e.Label, Value: e.Value.String(), Shadowed: e.Shadowed})
	}

	if !res.HasFinancials() {
		return r
	}
	r.HasFinancials = true
	r.Metrics = res.Unit.Rows()

	fc := *res.Forecast
	drivers := fc.Drivers
	totals := fc.Totals()
	r.Drivers = &drivers
	r.Forecast = fc.Rows
	r.Totals = &totals
	if m, ok := fc.FirstProfitableMonth(); ok {
		r.FirstProfitableMonth = &m
	}
	if m, ok := fc.PaybackMonth(); ok {
		r.PaybackMonth = &m
	}
	return r
}

// TOON renders the report in Token-Oriented Object Notation.
func (r Report) TOON() (string, error) {
	return toon.Marshal(r.payload(), nil)
}

func (r Report) payload() map[string]interface{} {
	payload := map[string]interface{}{
		"source":         r.Source,
		"sheets":         r.Sheets,
		"has_financials": r.HasFinancials,
	}
	if r.Error != "" {
		payload["error"] = r.Error
	}
	if !r.HasFinancials {
		return payload
	}

	metrics := make([]map[string]interface{}, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		var value interface{}
		if v, ok := m.Value.Value(); ok {
			value = v
		}
		metrics = append(metrics, map[string]interface{}{"metric": m.Metric, "value": value})
	}
	payload["unit_economics"] = metrics

	rows := make([]map[string]interface{}, 0, len(r.Forecast))
	for _, row := range r.Forecast {
		rows = append(rows, map[string]interface{}{
			"month":             row.Month,
			"units_per_day":     row.DisplayUnitsPerDay(),
			"units_per_month":   row.UnitsPerMonth,
			"revenue":           row.Revenue,
			"cogs":              row.COGS,
			"gross_profit":      row.GrossProfit,
			"fixed_costs":       row.FixedCosts,
			"operating_profit":  row.OperatingProfit,
			"cumulative_profit": row.CumulativeProfit,
		})
	}
	payload["forecast"] = rows

	if r.PaybackMonth != nil {
		payload["payback_month"] = *r.PaybackMonth
	}
	return payload
}
