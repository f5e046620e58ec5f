package pipeline

// Stats accumulates the observable outcome of one cleaning run. Stages
// only ever add to it; nothing upstream reads what a later stage wrote.
// It is the sole contract returned to the CLI layer.
type Stats struct {
	RunID string `json:"run_id"`

	// Load
	RowsLoaded      int    `json:"rows_processed"`
	OriginalColumns int    `json:"original_columns"`
	Encoding        string `json:"encoding,omitempty"`

	// Row filtering
	DuplicatesRemoved  int `json:"duplicates_removed"`
	MissingRowsDropped int `json:"missing_rows_dropped"`
	RowsRemoved        int `json:"rows_removed"`

	// Type optimization
	MemorySavedMB float64 `json:"memory_saved_mb"`

	// Outcome
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	FinalRows      int      `json:"final_rows"`
	FinalColumns   int      `json:"final_columns"`
	OutputPath     string   `json:"output_path,omitempty"`
	Success        bool     `json:"success"`
	Error          string   `json:"error,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}
