package excel

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/xuri/excelize/v2"

	"distlab/domain/distribution"
	"distlab/internal/statistics"
)

// Exporter writes an exploration to an xlsx workbook
type Exporter struct {
	config ExportConfig
}

// NewExporter creates an exporter with the given layout
func NewExporter(config ExportConfig) *Exporter {
	return &Exporter{config: config}
}

// Workbook builds the Sample, Density and Statistics sheets. The caller
// must Close the returned file.
func (e *Exporter) Workbook(result *distribution.SampleResult, report *statistics.Report) (*excelize.File, error) {
	if result == nil || report == nil {
		return nil, fmt.Errorf("nothing to export")
	}
	startTime := time.Now()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", e.config.SampleSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sample sheet: %w", err)
	}
	if err := e.writeSample(f, result); err != nil {
		f.Close()
		return nil, err
	}
	if err := e.writeDensity(f, result); err != nil {
		f.Close()
		return nil, err
	}
	if err := e.writeStatistics(f, result, report); err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)

	log.Printf("[Exporter] %s workbook built in %.2fms (%d observations)",
		result.Distribution, float64(time.Since(startTime).Nanoseconds())/1e6, result.Observations())
	return f, nil
}

// Export writes the workbook to w
func (e *Exporter) Export(w io.Writer, result *distribution.SampleResult, report *statistics.Report) error {
	f, err := e.Workbook(result, report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SampleHeaders names the sample columns: "x" for univariate families,
// category_1..category_k for multinomial
func SampleHeaders(dimension int) []string {
	if dimension <= 1 {
		return []string{"x"}
	}
	headers := make([]string, dimension)
	for i := range headers {
		headers[i] = fmt.Sprintf("category_%d", i+1)
	}
	return headers
}

func (e *Exporter) writeSample(f *excelize.File, result *distribution.SampleResult) error {
	sheet := e.config.SampleSheet
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open %s stream: %w", sheet, err)
	}
	dim := result.Dimension
	if dim < 1 {
		dim = 1
	}
	samples := result.Matrix()
	if err := sw.SetColWidth(1, dim, e.config.ColumnWidth); err != nil {
		return err
	}

	headers := SampleHeaders(dim)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	if samples == nil {
		return sw.Flush()
	}
	rows, _ := samples.Dims()
	for row := 0; row < rows; row++ {
		observation := samples.RawRowView(row)
		values := make([]interface{}, len(observation))
		for j, v := range observation {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, row+2, err)
		}
	}
	return sw.Flush()
}

func (e *Exporter) writeDensity(f *excelize.File, result *distribution.SampleResult) error {
	sheet := e.config.DensitySheet
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"x", "density"}); err != nil {
		return err
	}
	for i, p := range result.PlotSeries() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{p.X, p.Density}); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return f.SetColWidth(sheet, "A", "B", e.config.ColumnWidth)
}

func (e *Exporter) writeStatistics(f *excelize.File, result *distribution.SampleResult, report *statistics.Report) error {
	sheet := e.config.StatisticsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"name", "value"},
		{"distribution", result.Distribution.String()},
	}
	for _, name := range result.Parameters.Names() {
		rows = append(rows, []interface{}{"parameter:" + name, result.Parameters[name]})
	}
	rows = append(rows,
		[]interface{}{"closed_form_mean", momentCell(result.Moments.Mean)},
		[]interface{}{"closed_form_variance", momentCell(result.Moments.Variance)},
	)
	for _, entry := range report.Entries() {
		rows = append(rows, []interface{}{entry.Name, momentCell(entry.Value)})
	}
	if report.Fit.Test != "" {
		rows = append(rows, []interface{}{"fit_test", report.Fit.Test})
	}
	if report.Fit.Note != "" {
		rows = append(rows, []interface{}{"fit_note", report.Fit.Note})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetColWidth(sheet, "A", "B", 2*e.config.ColumnWidth)
}

// momentCell renders undefined values as text
func momentCell(m distribution.Moment) interface{} {
	if v, err := m.Float(); err == nil {
		return v
	}
	return m.String()
}
