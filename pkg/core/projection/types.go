package projection

// ForecastMonths is the fixed projection horizon.
const ForecastMonths = 12

// Defaults used when the assumption sheet has no usable figure.
const (
	DefaultWorkingDays      = 26
	DefaultStartUnitsPerDay = 30.0
	DefaultMonthlyGrowth    = 0.10
)

// Drivers defines the inputs of the monthly projection.
type Drivers struct {
	WorkingDays         int     `json:"working_days"`
	Price               float64 `json:"price"`
	StartUnitsPerDay    float64 `json:"start_units_per_day"`
	MonthlyGrowth       float64 `json:"monthly_growth"`
	VariableCostPerUnit float64 `json:"variable_cost_per_unit"`
	FixedCostsPerMonth  float64 `json:"fixed_costs_per_month"`
}

// Row holds one projected month. UnitsPerDay is exact; use DisplayUnitsPerDay
// for the two-decimal figure shown in tables.
type Row struct {
	Month            int     `json:"month"`
	UnitsPerDay      float64 `json:"units_per_day"`
	UnitsPerMonth    int     `json:"units_per_month"`
	Revenue          float64 `json:"revenue"`
	COGS             float64 `json:"cogs"`
	GrossProfit      float64 `json:"gross_profit"`
	FixedCosts       float64 `json:"fixed_costs"`
	OperatingProfit  float64 `json:"operating_profit"`
	CumulativeProfit float64 `json:"cumulative_profit"`
}

// Totals aggregates the projection horizon.
type Totals struct {
	Units           int     `json:"units"`
	Revenue         float64 `json:"revenue"`
	COGS            float64 `json:"cogs"`
	GrossProfit     float64 `json:"gross_profit"`
	FixedCosts      float64 `json:"fixed_costs"`
	OperatingProfit float64 `json:"operating_profit"`
}

// Column headers of the forecast table, in display order.
var Columns = []string{
	"Month", "Units/day", "Units/month", "Revenue", "COGS",
	"Gross Profit", "Fixed Costs", "Operating Profit", "Cumulative Profit",
}
