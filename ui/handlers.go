package ui

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"distlab/app"
	"distlab/domain/core"
	"distlab/domain/distribution"
	"distlab/internal/comparison"
	"distlab/internal/errors"
	"distlab/internal/statistics"
)

const (
	// densityTableRows bounds the density table; the plot uses every point
	densityTableRows = 25
	histogramBins    = 30
)

type indexPage struct {
	Title string
	Specs []distribution.Spec
}

type paramField struct {
	Spec  distribution.ParamSpec
	Value string
}

type distributionPage struct {
	Title       string
	Spec        distribution.Spec
	Description template.HTML
	Fields      []paramField
	Error       string

	// Set only when the parameters resolved
	Exploration *app.Exploration
	Entries     []statistics.Entry
	Plot        string
	SamplePlot  string
	Density     []distribution.Point
	Categories  []categoryRow
}

type categoryRow struct {
	Index       int
	Probability float64
	Empirical   float64
	Mean        float64
	Variance    float64
	HasVariance bool // false for the forced last category
}

type overlayRow struct {
	ID    distribution.ID
	Curve comparison.Curve
	Peak  float64
	PeakX float64
	Plot  string
}

type panelView struct {
	Panel comparison.Panel
	Plots []overlayRow
}

type comparePage struct {
	Title       string
	Families    []distribution.ID
	Selected    map[distribution.ID]bool
	Rows        []overlayRow
	Sensitivity string
	Panels      []panelView
	Error       string
}

// handleIndex lists every family with its rendered description
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, http.StatusOK, "index.html", indexPage{
		Title: "Distributions",
		Specs: a.explorer.Specs(),
	})
}

// handleDistribution resolves the query parameters over the family defaults.
// A rejected parameter set is shown inline and nothing downstream runs.
func (a *App) handleDistribution(w http.ResponseWriter, r *http.Request) {
	id := distribution.ID(chi.URLParam(r, "id"))
	spec, err := a.explorer.Spec(id)
	if err != nil {
		a.renderTemplate(w, http.StatusNotFound, "error.html", map[string]string{
			"Title":   "Unknown distribution",
			"Message": err.Error(),
		})
		return
	}

	page := distributionPage{
		Title:       spec.Name,
		Spec:        spec,
		Description: renderMarkdown(spec.Description),
	}

	overrides, badParam := parseQuery(r.URL.Query(), spec)
	params, _ := a.explorer.Parameters(id, overrides)
	page.Fields = fields(spec, params, r.URL.Query())

	status := http.StatusOK
	switch {
	case badParam != "":
		page.Error = "Parameter " + strconv.Quote(badParam) + " must be a number"
		status = http.StatusBadRequest
	default:
		exp, err := a.explorer.Explore(r.Context(), id, params)
		if err != nil {
			page.Error = err.Error()
			status = errors.HTTPStatus(errors.FromDomain(err).Code)
			if !core.IsValidationError(err) {
				a.logger.Error("explore %s: %v", id, err)
			}
			break
		}
		page.Exploration = exp
		page.Entries = exp.Statistics.Entries()
		series := exp.Result.PlotSeries()
		page.Plot = seriesPolyline(series)
		page.SamplePlot = histogramPolyline(statistics.SampleHistogram(exp.Result, histogramBins))
		page.Density = thin(series, densityTableRows)
		page.Categories = categories(exp.Result)
	}

	a.renderTemplate(w, status, "distribution.html", page)
}

// handleCompare renders the overlay table for ?family=... and optional
// sensitivity panels for ?sensitivity=normal|gamma at the family defaults
func (a *App) handleCompare(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := comparePage{
		Title:       "Compare",
		Families:    comparison.OverlayFamilies,
		Selected:    map[distribution.ID]bool{},
		Sensitivity: query.Get("sensitivity"),
	}

	selection := make([]distribution.ID, 0, len(query["family"]))
	for _, f := range query["family"] {
		selection = append(selection, distribution.ID(f))
		page.Selected[distribution.ID(f)] = true
	}

	status := http.StatusOK
	curves, err := a.explorer.Overlay(r.Context(), selection)
	if err != nil {
		page.Error = err.Error()
		status = errors.HTTPStatus(errors.FromDomain(err).Code)
		a.renderTemplate(w, status, "compare.html", page)
		return
	}

	grid := a.explorer.Grid()
	for _, id := range comparison.OverlayFamilies {
		if c, ok := curves[id]; ok {
			page.Rows = append(page.Rows, curveRow(id, c, grid))
		}
	}

	if page.Sensitivity != "" {
		id := distribution.ID(page.Sensitivity)
		base, err := a.explorer.Parameters(id, nil)
		if err == nil {
			var panels []comparison.Panel
			panels, err = a.explorer.Sensitivity(r.Context(), id, base)
			for _, p := range panels {
				view := panelView{Panel: p}
				for _, c := range p.Curves {
					view.Plots = append(view.Plots, curveRow(id, c, grid))
				}
				page.Panels = append(page.Panels, view)
			}
		}
		if err != nil {
			page.Error = err.Error()
			status = errors.HTTPStatus(errors.FromDomain(err).Code)
		}
	}

	a.renderTemplate(w, status, "compare.html", page)
}

// parseQuery reads declared parameters from the query string. The first
// unparsable value is reported by name.
func parseQuery(query url.Values, spec distribution.Spec) (distribution.ParameterSet, string) {
	overrides := distribution.ParameterSet{}
	for _, p := range spec.Params {
		raw := query.Get(p.Name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, p.Name
		}
		overrides[p.Name] = v
	}
	return overrides, ""
}

func fields(spec distribution.Spec, params distribution.ParameterSet, query url.Values) []paramField {
	out := make([]paramField, 0, len(spec.Params))
	for _, p := range spec.Params {
		value := query.Get(p.Name)
		if value == "" {
			value = formatFloat(params[p.Name])
		}
		out = append(out, paramField{Spec: p, Value: value})
	}
	return out
}

func categories(result *distribution.SampleResult) []categoryRow {
	if result.Distribution != distribution.Multinomial {
		return nil
	}
	rows := make([]categoryRow, len(result.Density))
	for i, p := range result.Density {
		rows[i] = categoryRow{Index: i + 1, Probability: p}
		if i < len(result.EmpiricalProportions) {
			rows[i].Empirical = result.EmpiricalProportions[i]
		}
		if i < len(result.Moments.CategoryMeans) {
			rows[i].Mean = result.Moments.CategoryMeans[i]
		}
		if i < len(result.Moments.CategoryVariances) {
			rows[i].Variance = result.Moments.CategoryVariances[i]
			rows[i].HasVariance = true
		}
	}
	return rows
}

func curveRow(id distribution.ID, c comparison.Curve, grid []float64) overlayRow {
	row := overlayRow{ID: id, Curve: c, Plot: polyline(grid, c.Density)}
	for i, d := range c.Density {
		if d > row.Peak {
			row.Peak, row.PeakX = d, grid[i]
		}
	}
	return row
}
