package dashboard

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"investor_dashboard/pkg/core/calc"
	"investor_dashboard/pkg/core/content"
	"investor_dashboard/pkg/core/pipeline"
	"investor_dashboard/pkg/core/projection"
	"investor_dashboard/pkg/core/utils"
)

// ViewState is everything one page render depends on.
type ViewState struct {
	Deck    *content.Deck
	Section content.Section
	Result  *pipeline.Result
	Assets  *content.Assets
}

type NavItem struct {
	ID     string
	Label  string
	Active bool
}

type KPI struct {
	Label string
	Value string
}

type MetricRowView struct {
	Metric string
	Value  string
}

type AssumptionView struct {
	Label    string
	Value    string
	Shadowed bool
}

type ImageView struct {
	content.Asset
	URL string
}

type ChartView struct {
	Series string
	Title  string
	URL    string
	PNGURL string
}

// SectionView is the template data of one section.
type SectionView struct {
	ID          string
	Kind        content.Kind
	Heading     string
	Subheading  string
	Images      []ImageView
	Body        template.HTML
	HasData     bool
	EmptyPrompt string

	KPIs            []KPI
	UnitTable       []MetricRowView
	Assumptions     []AssumptionView
	ForecastColumns []string
	ForecastRows    [][]string
	Charts          []ChartView

	Gallery []ImageView
	Caption string
	Info    string
	Success string
}

// Page is the template data of a full dashboard page.
type Page struct {
	Title       string
	Brand       string
	Footer      string
	UploadLabel string
	NavLabel    string
	Nav         []NavItem
	Source      string
	Sheets      []string
	LoadError   string
	Section     SectionView
}

// BuildPage derives the page for state. It has no side effects.
func BuildPage(state ViewState) (Page, error) {
	deck := state.Deck
	page := Page{
		Title:       deck.Title,
		Brand:       deck.Brand,
		Footer:      deck.Footer,
		UploadLabel: deck.UploadLabel,
		NavLabel:    deck.NavLabel,
	}
	for _, s := range deck.Sections {
		page.Nav = append(page.Nav, NavItem{ID: s.ID, Label: s.NavLabel(), Active: s.ID == state.Section.ID})
	}
	if res := state.Result; res != nil {
		page.Source = res.Source
		page.Sheets = res.Sheets
		page.LoadError = res.LoadError
	}

	view, err := BuildSection(state)
	if err != nil {
		return Page{}, err
	}
	page.Section = view
	return page, nil
}

// BuildSection derives one section's view from the deck copy and the
// pipeline result.
func BuildSection(state ViewState) (SectionView, error) {
	s := state.Section
	res := state.Result
	hasData := res.HasFinancials()

	view := SectionView{
		ID:         s.ID,
		Kind:       s.Kind,
		Heading:    s.Heading,
		Subheading: s.Subheading,
		Images:     imageViews(state.Assets, s.Images),
		HasData:    hasData,
		Gallery:    imageViews(state.Assets, s.Gallery),
		Caption:    s.Caption,
		Info:       s.Info,
		Success:    s.Success,
	}

	showBody := true
	if s.Kind.NeedsFinancials() && !hasData {
		view.EmptyPrompt = s.EmptyPrompt
		// Only the summary keeps its narrative without a model.
		showBody = s.Kind == content.KindSummary
	}
	if showBody && s.Body != "" {
		html, err := utils.RenderMarkdown(s.Body)
		if err != nil {
			return SectionView{}, fmt.Errorf("section %s: %w", s.ID, err)
		}
		view.Body = template.HTML(html)
	}

	if !hasData {
		return view, nil
	}

	switch s.Kind {
	case content.KindSummary:
		view.KPIs = kpis(s.Metrics, *res.Unit)
	case content.KindUnitEconomics:
		view.UnitTable = unitTable(*res.Unit)
		view.KPIs = kpis(s.Metrics, *res.Unit)
		view.Assumptions = assumptionRows(res)
	case content.KindForecast:
		view.ForecastColumns = projection.Columns
		view.ForecastRows = forecastRows(*res.Forecast)
		for _, c := range s.Charts {
			view.Charts = append(view.Charts, ChartView{
				Series: c.Series,
				Title:  c.Title,
				URL:    "/charts/" + url.PathEscape(c.Series),
				PNGURL: "/charts/" + url.PathEscape(c.Series) + ".png",
			})
		}
	}
	return view, nil
}

func imageViews(assets *content.Assets, imgs []content.Image) []ImageView {
	if assets == nil || len(imgs) == 0 {
		return nil
	}
	out := make([]ImageView, 0, len(imgs))
	for _, a := range assets.ResolveAll(imgs) {
		v := ImageView{Asset: a}
		if a.Exists {
			v.URL = "/assets/" + url.PathEscape(a.File)
		}
		out = append(out, v)
	}
	return out
}

// MetricAmount resolves a KPI key against the unit economics.
func MetricAmount(ue calc.UnitEconomics, key string) calc.Amount {
	switch key {
	case content.MetricPrice:
		return ue.Price
	case content.MetricVariableCost:
		return ue.VariableCost
	case content.MetricGrossMargin:
		return ue.GrossMargin
	case content.MetricGrossMarginPct:
		return ue.GrossMarginPct
	case content.MetricFixedCosts:
		return ue.FixedCosts
	case content.MetricBreakEvenMonth:
		return ue.BreakEvenMonth
	case content.MetricBreakEvenDay:
		return ue.BreakEvenDay
	}
	return calc.Undefined()
}

func kpis(metrics []content.Metric, ue calc.UnitEconomics) []KPI {
	out := make([]KPI, 0, len(metrics))
	for _, m := range metrics {
		amount := MetricAmount(ue, m.Key)
		value := "n/a"
		if v, ok := amount.Value(); ok {
			if m.Key == content.MetricGrossMarginPct {
				value = utils.FormatPercent(v)
			} else {
				value = utils.FormatNumber(v, m.Decimals)
			}
		}
		out = append(out, KPI{Label: m.Label, Value: value})
	}
	return out
}

func unitTable(ue calc.UnitEconomics) []MetricRowView {
	rows := ue.Rows()
	out := make([]MetricRowView, len(rows))
	for i, r := range rows {
		value := "n/a"
		if v, ok := r.Value.Value(); ok {
			if r.Metric == calc.MetricGrossMarginPct {
				value = utils.FormatPercent(v)
			} else {
				value = utils.FormatNumber(v, 2)
			}
		}
		out[i] = MetricRowView{Metric: r.Metric, Value: value}
	}
	return out
}

func assumptionRows(res *pipeline.Result) []AssumptionView {
	entries := res.Assumptions.Entries()
	out := make([]AssumptionView, len(entries))
	for i, e := range entries {
		out[i] = AssumptionView{Label: e.Label, Value: e.Value.String(), Shadowed: e.Shadowed}
	}
	return out
}

func forecastRows(f projection.Forecast) [][]string {
	out := make([][]string, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = []string{
			strconv.Itoa(r.Month),
			utils.FormatNumber(r.DisplayUnitsPerDay(), 2),
			utils.FormatInt(r.UnitsPerMonth),
			utils.FormatNumber(r.Revenue, 2),
			utils.FormatNumber(r.COGS, 2),
			utils.FormatNumber(r.GrossProfit, 2),
			utils.FormatNumber(r.FixedCosts, 2),
			utils.FormatNumber(r.OperatingProfit, 2),
			utils.FormatNumber(r.CumulativeProfit, 2),
		}
	}
	return out
}
