// Package pipeline runs the assumptions-to-financials chain:
// workbook -> assumption map -> unit economics -> forecast.
package pipeline

import (
	"sync"
	"time"

	"investor_dashboard/pkg/core/assumption"
	"investor_dashboard/pkg/core/calc"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/projection"
	"investor_dashboard/pkg/core/workbook"
)

// LoadErrorPrefix starts every user-visible load failure.
const LoadErrorPrefix = "Error al leer el Excel: "

// WorkbookLoader parses a document into sheets. Implementations return a
// non-nil workbook even when they fail.
type WorkbookLoader interface {
	LoadBytes(data []byte) (*workbook.Workbook, error)
}

// Result is everything derived from one document. A stage whose input is
// missing leaves its field nil.
type Result struct {
	Source      string               `json:"source"`
	Digest      string               `json:"digest,omitempty"`
	Sheets      []string             `json:"sheets"`
	LoadError   string               `json:"error,omitempty"`
	Assumptions *assumption.Map      `json:"-"`
	Unit        *calc.UnitEconomics  `json:"unit_economics"`
	Forecast    *projection.Forecast `json:"forecast"`
	Workbook    *workbook.Workbook   `json:"-"`
	Elapsed     time.Duration        `json:"-"`
}

// HasFinancials reports whether the Assumptions sheet was found.
func (r *Result) HasFinancials() bool {
	return r != nil && r.Unit != nil && r.Forecast != nil
}

// HasSheet reports whether the loaded workbook contains name.
func (r *Result) HasSheet(name string) bool {
	if r == nil || r.Workbook == nil {
		return false
	}
	_, ok := r.Workbook.Sheet(name)
	return ok
}

// Orchestrator wires the stages together.
type Orchestrator struct {
	mu     sync.RWMutex
	loader WorkbookLoader
}

// NewOrchestrator creates an orchestrator. A nil loader uses the default
// excelize-backed workbook loader.
func NewOrchestrator(loader WorkbookLoader) *Orchestrator {
	if loader == nil {
		loader = workbook.NewLoader(nil)
	}
	return &Orchestrator{loader: loader}
}

// SetLoader swaps the workbook loader. Runs already in flight keep the old one.
func (o *Orchestrator) SetLoader(loader WorkbookLoader) {
	if loader == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loader = loader
}

// Run executes the chain for doc. It never fails: a load error becomes
// Result.LoadError and the remaining stages see an empty workbook.
func (o *Orchestrator) Run(doc *Document) *Result {
	start := time.Now()
	res := &Result{Sheets: []string{}, Workbook: workbook.New()}
	if doc == nil {
		return res
	}
	res.Source = doc.Name
	res.Digest = doc.Digest()

	o.mu.RLock()
	loader := o.loader
	o.mu.RUnlock()

	wb, err := loader.LoadBytes(doc.Data)
	if wb == nil {
		wb = workbook.New()
	}
	if err != nil {
		res.LoadError = LoadErrorPrefix + err.Error()
		logging.Logf("[PIPELINE] %s: %v", doc.Name, err)
	}
	res.Workbook = wb
	res.Sheets = wb.Names()

	sheet, ok := wb.Sheet(assumption.SheetName)
	if !ok {
		logging.Logf("[PIPELINE] %s: no %q sheet, financials skipped", doc.Name, assumption.SheetName)
		res.Elapsed = time.Since(start)
		return res
	}

	m := assumption.Extract(sheet)
	ue := calc.ComputeUnitEconomics(m)
	fc := projection.ComputeForecast(m, ue)

	res.Assumptions = m
	res.Unit = &ue
	res.Forecast = &fc
	res.Elapsed = time.Since(start)

	logging.Logf("[PIPELINE] %s: %d assumption(s), forecast of %d months in %v",
		doc.Name, m.Len(), len(fc.Rows), res.Elapsed)
	return res
}
