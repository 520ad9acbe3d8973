package excel

// SampleTable is a numeric sample read from a workbook or CSV file
type SampleTable struct {
	Headers []string  // Column headers
	Values  []float64 // Row-major, len(Headers) values per row
}

// Dimension is the number of values per observation
func (t *SampleTable) Dimension() int {
	return len(t.Headers)
}

// Rows is the number of observations
func (t *SampleTable) Rows() int {
	if len(t.Headers) == 0 {
		return 0
	}
	return len(t.Values) / len(t.Headers)
}
