// Command financials runs the assumptions-to-financials pipeline on a workbook
// and prints the unit economics, the forecast or a machine-readable report.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"investor_dashboard/pkg/core/assumption"
	"investor_dashboard/pkg/core/calc"
	"investor_dashboard/pkg/core/export"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/pipeline"
	"investor_dashboard/pkg/core/projection"
	"investor_dashboard/pkg/core/utils"
	"investor_dashboard/pkg/core/workbook"
)

// errCheckFailed makes check mode exit non-zero without an extra message.
var errCheckFailed = errors.New("check failed")

var expectedLabels = []string{
	assumption.LabelPrice,
	assumption.LabelAcaiCost,
	assumption.LabelFruitsCost,
	assumption.LabelGranolaCost,
	assumption.LabelYogurtCost,
	assumption.LabelPackagingCost,
	assumption.LabelRent,
	assumption.LabelSalaries,
	assumption.LabelUtilities,
	assumption.LabelMarketing,
	assumption.LabelWorkingDays,
	assumption.LabelStartingUnits,
	assumption.LabelGrowthRate,
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("financials", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	file := fs.String("file", pipeline.DefaultDocument, "Workbook to read")
	mode := fs.String("mode", "unit", "Mode: unit, forecast, json, toon or check")
	readerName := fs.String("reader", workbook.ReaderExcelize, "Workbook reader: excelize or stream")
	verbose := fs.Bool("v", false, "Log pipeline stages to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*verbose {
		logging.SetLogger(nil)
	}

	reader, err := workbook.ReaderByName(*readerName)
	if err != nil {
		return err
	}
	doc, err := pipeline.ReadDocument(*file)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("workbook %s not found", *file)
	}

	res := pipeline.NewOrchestrator(workbook.NewLoader(reader)).Run(doc)

	switch *mode {
	case "unit":
		return printUnit(out, res)
	case "forecast":
		return printForecast(out, res)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(export.NewReport(res))
	case "toon":
		s, err := export.NewReport(res).TOON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, s)
		return err
	case "check":
		return runChecks(out, res)
	}
	return fmt.Errorf("unknown mode: %s", *mode)
}

func requireFinancials(res *pipeline.Result) error {
	if res.LoadError != "" {
		return errors.New(res.LoadError)
	}
	if !res.HasFinancials() {
		return fmt.Errorf("%s has no Assumptions sheet (sheets: %s)", res.Source, strings.Join(res.Sheets, ", "))
	}
	return nil
}

func printUnit(out io.Writer, res *pipeline.Result) error {
	if err := requireFinancials(res); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Metric\tValue\t")
	for _, row := range res.Unit.Rows() {
		fmt.Fprintf(tw, "%s\t%s\t\n", row.Metric, formatAmount(row))
	}
	return tw.Flush()
}

func formatAmount(row calc.MetricRow) string {
	v, ok := row.Value.Value()
	if !ok {
		return "n/a"
	}
	if row.Metric == calc.MetricGrossMarginPct {
		return utils.FormatPercent(v)
	}
	return utils.FormatNumber(v, 2)
}

func printForecast(out io.Writer, res *pipeline.Result) error {
	if err := requireFinancials(res); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(projection.Columns, "\t")+"\t")
	for _, r := range res.Forecast.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Month,
			utils.FormatNumber(r.DisplayUnitsPerDay(), 2),
			utils.FormatInt(r.UnitsPerMonth),
			utils.FormatNumber(r.Revenue, 2),
			utils.FormatNumber(r.COGS, 2),
			utils.FormatNumber(r.GrossProfit, 2),
			utils.FormatNumber(r.FixedCosts, 2),
			utils.FormatNumber(r.OperatingProfit, 2),
			utils.FormatNumber(r.CumulativeProfit, 2),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	totals := res.Forecast.Totals()
	fmt.Fprintf(out, "\nAnnual revenue: %s, operating profit: %s\n",
		utils.FormatNumber(totals.Revenue, 2), utils.FormatNumber(totals.OperatingProfit, 2))
	if m, ok := res.Forecast.PaybackMonth(); ok {
		fmt.Fprintf(out, "Payback month: %d\n", m)
	} else {
		fmt.Fprintln(out, "Payback month: not reached")
	}
	return nil
}

// runChecks reports missing and shadowed labels. It fails when the workbook
// cannot produce financials.
func runChecks(out io.Writer, res *pipeline.Result) error {
	if err := requireFinancials(res); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return errCheckFailed
	}
	fmt.Fprintf(out, "Success: %s parsed (%d sheet(s), %d assumption(s))\n", res.Source, len(res.Sheets), res.Assumptions.Len())

	for _, label := range expectedLabels {
		if _, ok := res.Assumptions.Number(label); ok {
			continue
		}
		if label == assumption.LabelAcaiCost {
			if _, ok := res.Assumptions.Number(assumption.LabelAcaiCostAlias); ok {
				continue
			}
		}
		fmt.Fprintf(out, "Warning: %q missing, default used\n", label)
	}
	for _, e := range res.Assumptions.Entries() {
		if e.Shadowed {
			fmt.Fprintf(out, "Warning: duplicate label %q ignored\n", e.Label)
		}
	}
	return nil
}
