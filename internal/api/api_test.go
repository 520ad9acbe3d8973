package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"distlab/adapters/excel"
	"distlab/adapters/stats/families"
	"distlab/app"
	"distlab/internal"
	"distlab/internal/comparison"
	"distlab/internal/resolver"
	"distlab/internal/statistics"
)

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	registry := families.NewRegistry()
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)
	explorer := app.NewExplorerService(
		resolver.New(registry),
		statistics.NewCalculator(registry),
		comparison.NewEngine(registry),
		logger,
	)
	return NewServer(explorer, excel.NewExporter(excel.DefaultExportConfig()), logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestListDistributions(t *testing.T) {
	w := do(t, newTestServer(), http.MethodGet, "/api/distributions", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Len(t, body["distributions"], 14)

	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRequestIDIsEchoed(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
}

func TestGetDistribution(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodGet, "/api/distributions/gamma", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, map[string]interface{}{"k": 1.0, "theta": 1.0}, body["defaults"])

	w = do(t, s, http.MethodGet, "/api/distributions/cauchy", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNSUPPORTED_DISTRIBUTION", decode(t, w)["code"])
}

func TestExplore(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/api/distributions/normal/explore", `{"parameters":{"mean":2}}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	result := body["result"].(map[string]interface{})
	assert.Len(t, result["sample"], 1000)
	assert.Len(t, result["density"], 1000)
	assert.Equal(t, map[string]interface{}{"mean": 2.0, "std_dev": 1.0}, result["parameters"])

	stats := body["statistics"].(map[string]interface{})
	fit := stats["goodness_of_fit"].(map[string]interface{})
	assert.Equal(t, true, fit["applicable"])
}

func TestExplore_WithoutBodyUsesDefaults(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/api/distributions/students_t/explore", "")
	require.Equal(t, http.StatusOK, w.Code)

	result := decode(t, w)["result"].(map[string]interface{})
	assert.Equal(t, 10.0, result["parameters"].(map[string]interface{})["df"])
}

func TestExplore_UndefinedMomentsSerialiseAsLabel(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/api/distributions/students_t/explore", `{"parameters":{"df":1}}`)
	require.Equal(t, http.StatusOK, w.Code)

	moments := decode(t, w)["result"].(map[string]interface{})["moments"].(map[string]interface{})
	assert.Equal(t, "undefined", moments["mean"])
	assert.Equal(t, "undefined", moments["variance"])
}

func TestExplore_Errors(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"validation", "/api/distributions/uniform/explore", `{"parameters":{"low":2,"high":1}}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"non-integer df", "/api/distributions/chi_squared/explore", `{"parameters":{"df":2.5}}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unsupported", "/api/distributions/zipf/explore", `{"parameters":{}}`, http.StatusNotFound, "UNSUPPORTED_DISTRIBUTION"},
		{"malformed body", "/api/distributions/normal/explore", `{"parameters":`, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestExport(t *testing.T) {
	w := do(t, newTestServer(), http.MethodGet, "/api/distributions/poisson/export?mu=4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "poisson.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sample")
	require.NoError(t, err)
	assert.Len(t, rows, 1001)
}

func TestExport_BadQuery(t *testing.T) {
	w := do(t, newTestServer(), http.MethodGet, "/api/distributions/poisson/export?mu=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, w)["code"])
}

func TestOverlay(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/compare/overlay", `{"families":["normal","gamma","normal"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	curves := body["curves"].(map[string]interface{})
	assert.Len(t, curves, 2)
	assert.Len(t, body["grid"], 1000)

	w = do(t, s, http.MethodPost, "/api/compare/overlay", `{"families":["beta"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSensitivity(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/compare/sensitivity/normal", `{"parameters":{"std_dev":2}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["panels"], 2)

	w = do(t, s, http.MethodPost, "/api/compare/sensitivity/gamma", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["panels"], 1)

	w = do(t, s, http.MethodPost, "/api/compare/sensitivity/normal", `{"parameters":{"std_dev":-1}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, s, http.MethodPost, "/api/compare/sensitivity/poisson", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
