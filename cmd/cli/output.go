package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gopkg.in/yaml.v3"

	"distlab/app"
	"distlab/domain/distribution"
	"distlab/internal/comparison"
	"distlab/internal/errors"
	"distlab/internal/statistics"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"

	histogramBins  = 12
	histogramWidth = 40
)

// parseParams turns repeated name=value flags into a parameter set
func parseParams(raw []string) (distribution.ParameterSet, error) {
	params := distribution.ParameterSet{}
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("parameter %q must look like name=value", kv))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("parameter %s must be a number, got %q", name, value))
		}
		params[name] = v
	}
	return params, nil
}

func encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown output format %q (use table, json or yaml)", format))
	}
}

func exportWorkbook(path string, exp *app.Exploration) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := newExporter().Export(f, exp.Result, exp.Statistics); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSpecs(w io.Writer, specs []distribution.Spec) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tPARAMETERS")
	for _, spec := range specs {
		names := make([]string, len(spec.Params))
		for i, p := range spec.Params {
			names[i] = fmt.Sprintf("%s=%g", p.Name, p.Default)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", spec.ID, spec.Name, spec.Kind, strings.Join(names, " "))
	}
	return tw.Flush()
}

func printExploration(w io.Writer, exp *app.Exploration) error {
	res := exp.Result
	fmt.Fprintf(w, "%s (%s)\n", exp.Spec.Name, exp.Spec.ID)
	fmt.Fprintf(w, "parameters: %s\n", res.Parameters)
	fmt.Fprintf(w, "sample: %d observations x %d\n", res.Observations(), res.Dimension)
	if res.Dimension > 1 {
		fmt.Fprintln(w)
		if err := printCategories(w, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "closed form: mean %s, variance %s\n", res.Moments.Mean, res.Moments.Variance)
		fmt.Fprintln(w)
		printHistogram(w, statistics.SampleHistogram(res, histogramBins))
	}
	fmt.Fprintln(w)
	return printReport(w, exp.Statistics)
}

// printCategories leaves the variance blank for the forced last category
func printCategories(w io.Writer, res *distribution.SampleResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tPROBABILITY\tEMPIRICAL\tEXPECTED COUNT\tVARIANCE")
	for i, p := range res.Density {
		empirical, mean, variance := "", "", ""
		if i < len(res.EmpiricalProportions) {
			empirical = strconv.FormatFloat(res.EmpiricalProportions[i], 'f', 4, 64)
		}
		if i < len(res.Moments.CategoryMeans) {
			mean = strconv.FormatFloat(res.Moments.CategoryMeans[i], 'g', 4, 64)
		}
		if i < len(res.Moments.CategoryVariances) {
			variance = strconv.FormatFloat(res.Moments.CategoryVariances[i], 'g', 4, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, strconv.FormatFloat(p, 'g', 4, 64), empirical, mean, variance)
	}
	return tw.Flush()
}

// printHistogram draws one row per bin, bars scaled to the fullest bin
func printHistogram(w io.Writer, bins []statistics.Bin) {
	if len(bins) == 0 {
		return
	}
	most := 0.0
	for _, b := range bins {
		most = math.Max(most, b.Count)
	}
	fmt.Fprintln(w, "sample histogram:")
	for _, b := range bins {
		bar := 0
		if most > 0 {
			bar = int(math.Round(b.Count / most * histogramWidth))
		}
		fmt.Fprintf(w, "  [%9.3f, %9.3f) %5.0f %s\n", b.Lower, b.Upper, b.Count, strings.Repeat("#", bar))
	}
}

func printReport(w io.Writer, report *statistics.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATISTIC\tVALUE")
	for _, e := range report.Entries() {
		fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(report.Intervals) > 0 {
		fmt.Fprintln(w)
	}
	for _, iv := range report.Intervals {
		fmt.Fprintf(w, "μ ± %gσ: [%g, %g] theoretical %.1f%%, sample %.1f%%\n",
			iv.Sigmas, iv.Lower, iv.Upper, 100*iv.Coverage, 100*iv.Empirical)
	}

	fit := report.Fit
	switch {
	case fit.Applicable:
		fmt.Fprintf(w, "\ngoodness of fit (%s): statistic %s, p-value %s\n", fit.Test, fit.Statistic, fit.PValue)
	case fit.Test != "":
		fmt.Fprintf(w, "\ngoodness of fit (%s): not computed\n", fit.Test)
	}
	if fit.Note != "" {
		fmt.Fprintf(w, "note: %s\n", fit.Note)
	}
	return nil
}

// printCurves summarises each curve by its mode and its area over the grid
func printCurves(w io.Writer, grid []float64, curves []comparison.Curve) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CURVE\tPEAK AT\tPEAK DENSITY\tAREA")
	for _, c := range curves {
		peak := floats.MaxIdx(c.Density)
		fmt.Fprintf(tw, "%s\t%.3f\t%.4f\t%.4f\n",
			c.Label, grid[peak], c.Density[peak], integrate.Trapezoidal(grid, c.Density))
	}
	return tw.Flush()
}
