package excel

// ExportConfig controls the layout of exported workbooks
type ExportConfig struct {
	SampleSheet     string  `json:"sample_sheet"`
	DensitySheet    string  `json:"density_sheet"`
	StatisticsSheet string  `json:"statistics_sheet"`
	ColumnWidth     float64 `json:"column_width"`
}

// DefaultExportConfig returns the standard Sample/Density/Statistics layout
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		SampleSheet:     "Sample",
		DensitySheet:    "Density",
		StatisticsSheet: "Statistics",
		ColumnWidth:     16,
	}
}
