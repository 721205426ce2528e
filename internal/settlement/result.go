package settlement

// BatchResult summarizes one generation run for operator review.
// Skips and warnings are non-fatal; the batch keeps going.
type BatchResult struct {
	Month     string   `json:"month"`
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Reasons   []string `json:"skipped_reasons,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func NewBatchResult(m Month) *BatchResult {
	return &BatchResult{Month: m.String()}
}

// Skip records a per-record skip with its reason.
func (r *BatchResult) Skip(reason string) {
	r.Skipped++
	r.Reasons = append(r.Reasons, reason)
}

// Warn records a non-blocking anomaly.
func (r *BatchResult) Warn(warning string) {
	r.Warnings = append(r.Warnings, warning)
}
