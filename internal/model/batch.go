package model

import "time"

// SkippedDuplicate records a combination short-circuited by the dedup ledger.
type SkippedDuplicate struct {
	Index          int    `json:"index"`
	CombinationKey string `json:"combination_key"`
	ExistingPageID string `json:"existing_page_id"`
}

// QualityFailure records a combination whose assembled page was rejected.
type QualityFailure struct {
	Index          int     `json:"index"`
	CombinationKey string  `json:"combination_key"`
	Score          float64 `json:"score"`
	FailedCheck    string  `json:"failed_check"`
}

// ItemError records a per-combination error that did not abort the batch.
type ItemError struct {
	Index          int    `json:"index"`
	CombinationKey string `json:"combination_key,omitempty"`
	Reason         string `json:"reason"`
}

// AIUsage summarizes AI provider consumption for one batch.
type AIUsage struct {
	Calls        int64   `json:"calls"`
	Fallbacks    int64   `json:"fallbacks"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// BatchResult is the structured report of one generation run. All slices are
// ordered by the index of the requested combination, regardless of internal
// processing order.
type BatchResult struct {
	BatchID           string             `json:"batch_id"`
	TemplateID        string             `json:"template_id"`
	Requested         int                `json:"requested"`
	Generated         []GeneratedPage    `json:"generated"`
	SkippedDuplicates []SkippedDuplicate `json:"skipped_duplicates"`
	FailedQuality     []QualityFailure   `json:"failed_quality"`
	Errors            []ItemError        `json:"errors"`
	Cancelled         bool               `json:"cancelled"`
	Usage             AIUsage            `json:"usage"`
	StartedAt         time.Time          `json:"started_at"`
	FinishedAt        time.Time          `json:"finished_at"`
}

// GeneratedIDs returns the IDs of all generated pages, in request order.
func (r *BatchResult) GeneratedIDs() []string {
	ids := make([]string, len(r.Generated))
	for i, p := range r.Generated {
		ids[i] = p.ID
	}
	return ids
}
