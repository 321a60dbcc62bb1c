package models

import "time"

// RunRecord stores the summary of one completed stripping run.
// Persisted by the run history storage when report history is enabled.
type RunRecord struct {
	ID          string     `json:"id"`
	Stage       BuildStage `json:"stage" badgerhold:"index"`
	ReportName  string     `json:"report_name"`
	ReportPath  string     `json:"report_path,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt time.Time  `json:"completed_at"`
	Shaders     int        `json:"shaders"`
	Processed   int        `json:"processed"`
	Passed      int        `json:"passed"`
	Stripped    int        `json:"stripped"`
}

// StrippedRatio returns the share of processed variants that were stripped
func (r *RunRecord) StrippedRatio() float64 {
	if r.Processed == 0 {
		return 0
	}
	return float64(r.Stripped) / float64(r.Processed)
}
