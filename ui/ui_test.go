package ui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distlab/adapters/stats/families"
	"distlab/app"
	"distlab/domain/distribution"
	"distlab/internal"
	"distlab/internal/comparison"
	"distlab/internal/resolver"
	"distlab/internal/statistics"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	registry := families.NewRegistry()
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)
	explorer := app.NewExplorerService(
		resolver.New(registry),
		statistics.NewCalculator(registry),
		comparison.NewEngine(registry),
		logger,
	)
	a, err := NewApp(explorer, logger)
	require.NoError(t, err)
	return a
}

func get(t *testing.T, a *App, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code, w.Body.String()
}

func TestIndex_ListsFamiliesWithMarkdown(t *testing.T) {
	code, body := get(t, newTestApp(t), "/")
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, `href="/distributions/negative_binomial"`)
	assert.Contains(t, body, "<strong>normal distribution</strong>")
	assert.Contains(t, body, "</html>")
}

func TestDistribution_RendersStatistics(t *testing.T) {
	code, body := get(t, newTestApp(t), "/distributions/normal?mean=1&std_dev=2")
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, "Goodness of fit")
	assert.Contains(t, body, "dagostino_pearson")
	assert.Contains(t, body, "theoretical_variance")
	assert.Contains(t, body, `value="2"`)
	assert.Contains(t, body, "<polyline")
	assert.NotContains(t, body, `class="error"`)
}

func TestDistribution_SampleHistogramAndNormalRanges(t *testing.T) {
	code, body := get(t, newTestApp(t), "/distributions/normal?mean=1&std_dev=2")
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, "Sample histogram")
	assert.Equal(t, 2, strings.Count(body, "<polyline"))

	assert.Contains(t, body, "μ ± 1σ")
	assert.Contains(t, body, "[-1, 3]")
	assert.Contains(t, body, "μ ± 2σ")
	assert.Contains(t, body, "[-3, 5]")
	assert.Contains(t, body, "68.3%")
	assert.Contains(t, body, "95.4%")
}

func TestDistribution_RangesOnlyForNormal(t *testing.T) {
	code, body := get(t, newTestApp(t), "/distributions/poisson")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Sample histogram")
	assert.NotContains(t, body, "μ ± 1σ")
}

func TestDistribution_ValidationErrorShownInline(t *testing.T) {
	code, body := get(t, newTestApp(t), "/distributions/uniform?low=3&high=1")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	assert.Contains(t, body, `class="error"`)
	assert.Contains(t, body, "must be greater than low")
	assert.NotContains(t, body, "Goodness of fit")
}

func TestDistribution_BadNumber(t *testing.T) {
	code, body := get(t, newTestApp(t), "/distributions/poisson?mu=lots")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "must be a number")
	assert.NotContains(t, body, "Goodness of fit")
}

func TestDistribution_Unknown(t *testing.T) {
	code, body := get(t, newTestApp(t), "/distributions/zipf")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "Unknown distribution")
}

func TestDistribution_MultinomialCategories(t *testing.T) {
	code, body := get(t, newTestApp(t), "/distributions/multinomial?num_categories=2&prob_1=0.3")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "empirical proportion")
	assert.Contains(t, body, "<td>0.7</td>")
	assert.Contains(t, body, "<th>variance</th>")
	// n=100: the free category has variance 100·0.3·0.7, the forced one none
	assert.Contains(t, body, "<td>30</td><td>21</td></tr>")
	assert.Contains(t, body, "<td>70</td><td></td></tr>")
	assert.NotContains(t, body, "Sample histogram")
}

func TestCompare_Overlay(t *testing.T) {
	code, body := get(t, newTestApp(t), "/compare?family=normal&family=exponential")
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, body, "Normal(μ=0, σ=1)")
	assert.Contains(t, body, "Exponential(scale=1)")
	assert.NotContains(t, body, "Gamma(k=2, θ=1)")
	assert.Equal(t, 2, strings.Count(body, "<polyline"))
}

func TestCompare_Sensitivity(t *testing.T) {
	code, body := get(t, newTestApp(t), "/compare?sensitivity=gamma")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Varying shape")
	assert.Contains(t, body, "k=5")
}

func TestCompare_Unsupported(t *testing.T) {
	code, body := get(t, newTestApp(t), "/compare?family=beta")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, `class="error"`)
}

func TestStaticStylesheet(t *testing.T) {
	code, body := get(t, newTestApp(t), "/static/explorer.css")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, ".plot")
}

func TestPolylineAndThin(t *testing.T) {
	assert.Equal(t, "0.0,200.0 600.0,0.0", polyline([]float64{0, 1}, []float64{0, 2}))
	assert.Empty(t, polyline(nil, nil))

	points := make([]distribution.Point, 100)
	for i := range points {
		points[i] = distribution.Point{X: float64(i)}
	}
	thinned := thin(points, 10)
	assert.LessOrEqual(t, len(thinned), 11)
	assert.Equal(t, 99.0, thinned[len(thinned)-1].X)
	assert.Equal(t, 0.0, thinned[0].X)
}
