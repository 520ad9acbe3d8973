package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"distlab/adapters/stats/families"
	"distlab/domain/distribution"
	"distlab/internal/resolver"
	"distlab/internal/statistics"
)

func explore(t *testing.T, id distribution.ID, params distribution.ParameterSet) (*distribution.SampleResult, *statistics.Report) {
	t.Helper()
	registry := families.NewRegistry()
	result, err := resolver.New(registry).Resolve(id, params)
	require.NoError(t, err)
	report, err := statistics.NewCalculator(registry).DescribeResult(result)
	require.NoError(t, err)
	return result, report
}

func TestExport_Sheets(t *testing.T) {
	result, report := explore(t, distribution.Exponential, distribution.ParameterSet{"scale": 2})

	var buf bytes.Buffer
	require.NoError(t, NewExporter(DefaultExportConfig()).Export(&buf, result, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sample", "Density", "Statistics"}, f.GetSheetList())

	sample, err := f.GetRows("Sample")
	require.NoError(t, err)
	assert.Len(t, sample, distribution.SampleSize+1)
	assert.Equal(t, []string{"x"}, sample[0])

	density, err := f.GetRows("Density")
	require.NoError(t, err)
	assert.Len(t, density, len(result.PlotSeries())+1)

	stats, err := f.GetRows("Statistics")
	require.NoError(t, err)
	names := make([]string, 0, len(stats))
	for _, row := range stats {
		names = append(names, row[0])
	}
	assert.Contains(t, names, "parameter:scale")
	assert.Contains(t, names, "closed_form_mean")
	assert.Contains(t, names, "kurtosis")
}

func TestExport_RoundTripSample(t *testing.T) {
	result, report := explore(t, distribution.Normal, distribution.ParameterSet{"mean": 1, "std_dev": 0.5})

	var buf bytes.Buffer
	require.NoError(t, NewExporter(DefaultExportConfig()).Export(&buf, result, report))

	table, err := ReadWorkbookSample(&buf, "Sample")
	require.NoError(t, err)
	assert.Equal(t, 1, table.Dimension())
	assert.Equal(t, distribution.SampleSize, table.Rows())
	assert.InDeltaSlice(t, result.Sample, table.Values, 1e-12)
}

func TestExport_MultinomialColumnsAndUndefinedMoments(t *testing.T) {
	result, report := explore(t, distribution.Multinomial, distribution.ParameterSet{
		"num_categories": 3, "n": 10, "prob_1": 0.2, "prob_2": 0.3,
	})

	var buf bytes.Buffer
	require.NoError(t, NewExporter(DefaultExportConfig()).Export(&buf, result, report))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sample, err := f.GetRows("Sample")
	require.NoError(t, err)
	assert.Equal(t, []string{"category_1", "category_2", "category_3"}, sample[0])
	assert.Len(t, sample, distribution.SampleSize+1)

	table, err := ReadWorkbookSample(bytes.NewReader(buf.Bytes()), "Sample")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Dimension())
	assert.InDeltaSlice(t, result.Sample, table.Values, 1e-12)

	stats, err := f.GetRows("Statistics")
	require.NoError(t, err)
	found := false
	for _, row := range stats {
		if row[0] == "closed_form_mean" {
			found = true
			assert.Equal(t, "undefined", row[1])
		}
	}
	assert.True(t, found)
}

func TestExport_NothingToExport(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewExporter(DefaultExportConfig()).Export(&buf, nil, nil))
}

func TestReadCSVSample(t *testing.T) {
	table, err := ReadCSVSample(strings.NewReader("a,b\n1,2\n3,4\n,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Headers)
	assert.Equal(t, []float64{1, 2, 3, 4}, table.Values)
	assert.Equal(t, 2, table.Rows())

	_, err = ReadCSVSample(strings.NewReader("a\nnot-a-number\n"))
	assert.Error(t, err)

	_, err = ReadCSVSample(strings.NewReader("a\n"))
	assert.Error(t, err)
}

func TestDataReader_Files(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "sample.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("x\n0.5\n1.5\n"), 0o644))
	table, err := NewDataReader(csvPath).ReadSample()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.5}, table.Values)

	// Workbooks without a Sample sheet fall back to the first sheet
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"x"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{2.5}))
	xlsxPath := filepath.Join(dir, "sample.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	table, err = NewDataReader(xlsxPath).ReadSample()
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5}, table.Values)

	_, err = NewDataReader(filepath.Join(dir, "missing.csv")).ReadSample()
	assert.Error(t, err)
}
