package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DataReader reads numeric samples from Excel or CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
}

// NewDataReader creates a reader for filePath. Workbooks are read from the
// Sample sheet, falling back to the first sheet.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: DefaultExportConfig().SampleSheet}
}

// ReadSample reads the file into a numeric table
func (r *DataReader) ReadSample() (*SampleTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r.filePath, err)
	}
	defer file.Close()

	switch r.fileType {
	case "csv":
		return ReadCSVSample(file)
	case "xlsx":
		return ReadWorkbookSample(file, r.sheet)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// ReadWorkbookSample reads sheet (or the first sheet when it is absent) from an xlsx stream
func ReadWorkbookSample(src io.Reader, sheet string) (*SampleTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return processRows(rows)
}

// ReadCSVSample reads a CSV stream with a header row
func ReadCSVSample(src io.Reader) (*SampleTable, error) {
	rows, err := csv.NewReader(src).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return processRows(rows)
}

// processRows parses every data cell as a float. Blank trailing rows are skipped.
func processRows(rows [][]string) (*SampleTable, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have at least a header row and one data row")
	}

	headers := make([]string, 0, len(rows[0]))
	for _, header := range rows[0] {
		headers = append(headers, strings.TrimSpace(header))
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("header row is empty")
	}

	table := &SampleTable{Headers: headers}
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		if len(row) < len(headers) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i+2, len(row), len(headers))
		}
		for j := range headers {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+2, headers[j], err)
			}
			table.Values = append(table.Values, v)
		}
	}
	if len(table.Values) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}
	return table, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
