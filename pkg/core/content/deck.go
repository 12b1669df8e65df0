// Package content holds the investor deck: section order, marketing copy,
// KPI definitions and image references. The built-in deck is embedded and
// can be replaced by a YAML, HJSON or JSON file.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"

	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/utils"
)

//go:embed deck.yaml
var defaultDeck []byte

// ErrUnknownSection is returned for a section id the deck does not define.
var ErrUnknownSection = errors.New("unknown section")

// Kind selects how a section is rendered.
type Kind string

const (
	KindStatic        Kind = "static"
	KindSummary       Kind = "summary"
	KindUnitEconomics Kind = "unit_economics"
	KindForecast      Kind = "forecast"
)

// NeedsFinancials reports whether the section shows figures from the workbook.
func (k Kind) NeedsFinancials() bool {
	return k == KindSummary || k == KindUnitEconomics || k == KindForecast
}

func (k Kind) valid() bool {
	return k == KindStatic || k.NeedsFinancials()
}

// Metric keys resolvable against the unit economics.
const (
	MetricPrice          = "price"
	MetricVariableCost   = "variable_cost"
	MetricGrossMargin    = "gross_margin"
	MetricGrossMarginPct = "gross_margin_pct"
	MetricFixedCosts     = "fixed_costs"
	MetricBreakEvenMonth = "break_even_month"
	MetricBreakEvenDay   = "break_even_day"
)

// Series names a forecast chart can plot.
const (
	SeriesOperating  = "operating"
	SeriesCumulative = "cumulative"
)

type Image struct {
	File    string `yaml:"file" json:"file"`
	Caption string `yaml:"caption" json:"caption,omitempty"`
}

// Metric is a KPI tile. Decimals is ignored for percentages.
type Metric struct {
	Label    string `yaml:"label" json:"label"`
	Key      string `yaml:"key" json:"key"`
	Decimals int    `yaml:"decimals" json:"decimals,omitempty"`
}

type Chart struct {
	Series string `yaml:"series" json:"series"`
	Title  string `yaml:"title" json:"title"`
}

type Axes struct {
	X string `yaml:"x" json:"x"`
	Y string `yaml:"y" json:"y"`
}

// Section is one page of the deck.
type Section struct {
	ID          string   `yaml:"id" json:"id"`
	Label       string   `yaml:"label" json:"label"`
	Icon        string   `yaml:"icon" json:"icon,omitempty"`
	Kind        Kind     `yaml:"kind" json:"kind"`
	Heading     string   `yaml:"heading" json:"heading"`
	Subheading  string   `yaml:"subheading" json:"subheading,omitempty"`
	Images      []Image  `yaml:"images" json:"images,omitempty"`
	Body        string   `yaml:"body" json:"body,omitempty"`
	Metrics     []Metric `yaml:"metrics" json:"metrics,omitempty"`
	Charts      []Chart  `yaml:"charts" json:"charts,omitempty"`
	Gallery     []Image  `yaml:"gallery" json:"gallery,omitempty"`
	Caption     string   `yaml:"caption" json:"caption,omitempty"`
	Info        string   `yaml:"info" json:"info,omitempty"`
	Success     string   `yaml:"success" json:"success,omitempty"`
	EmptyPrompt string   `yaml:"empty_prompt" json:"empty_prompt,omitempty"`
}

// NavLabel is the label shown in the navigation list.
func (s Section) NavLabel() string {
	if s.Icon == "" {
		return s.Label
	}
	return s.Icon + " " + s.Label
}

// Deck is the full presentation.
type Deck struct {
	Title       string    `yaml:"title" json:"title"`
	Brand       string    `yaml:"brand" json:"brand"`
	Footer      string    `yaml:"footer" json:"footer"`
	UploadLabel string    `yaml:"upload_label" json:"upload_label"`
	NavLabel    string    `yaml:"nav_label" json:"nav_label"`
	ChartAxes   Axes      `yaml:"chart_axes" json:"chart_axes"`
	Sections    []Section `yaml:"sections" json:"sections"`
}

var (
	builtin     *Deck
	builtinErr  error
	builtinOnce sync.Once
)

// Default returns the embedded deck. Callers must not modify it.
func Default() (*Deck, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(defaultDeck, ".yaml")
	})
	return builtin, builtinErr
}

// Load reads a deck file; the format follows the extension (.yaml, .yml,
// .hjson or .json). An empty path returns the embedded deck.
func Load(path string) (*Deck, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	deck, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	logging.Logf("[CONTENT] loaded %d section(s) from %s", len(deck.Sections), path)
	return deck, nil
}

// Parse decodes and validates a deck. Hand-edited JSON is parsed leniently.
func Parse(data []byte, ext string) (*Deck, error) {
	var deck Deck
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &deck); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".hjson":
		if err := utils.ParseHJSONToStruct(string(data), &deck); err != nil {
			return nil, err
		}
	case ".json":
		if _, err := utils.SmartParse(string(data), &deck); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported deck format %q", ext)
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return &deck, nil
}

// Validate checks section ids, kinds, metric keys and chart series.
func (d *Deck) Validate() error {
	if len(d.Sections) == 0 {
		return errors.New("deck has no sections")
	}
	seen := make(map[string]bool, len(d.Sections))
	for i, s := range d.Sections {
		if s.ID == "" {
			return fmt.Errorf("section %d has no id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
		if !s.Kind.valid() {
			return fmt.Errorf("section %q: unknown kind %q", s.ID, s.Kind)
		}
		for _, m := range s.Metrics {
			if !knownMetric(m.Key) {
				return fmt.Errorf("section %q: unknown metric %q", s.ID, m.Key)
			}
		}
		for _, c := range s.Charts {
			if c.Series != SeriesOperating && c.Series != SeriesCumulative {
				return fmt.Errorf("section %q: unknown chart series %q", s.ID, c.Series)
			}
		}
	}
	return nil
}

func knownMetric(key string) bool {
	switch key {
	case MetricPrice, MetricVariableCost, MetricGrossMargin, MetricGrossMarginPct,
		MetricFixedCosts, MetricBreakEvenMonth, MetricBreakEvenDay:
		return true
	}
	return false
}

// Section looks up a section by id.
func (d *Deck) Section(id string) (Section, error) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
}

// First is the landing section.
func (d *Deck) First() Section {
	return d.Sections[0]
}

// IDs lists section ids in deck order.
func (d *Deck) IDs() []string {
	ids := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Chart finds the chart definition for a series in any section.
func (d *Deck) Chart(series string) (Chart, bool) {
	for _, s := range d.Sections {
		for _, c := range s.Charts {
			if c.Series == series {
				return c, true
			}
		}
	}
	return Chart{}, false
}
