// Package search holds the retrieval result value objects.
package search

// Breakdown carries the per-signal scores behind a final relevance score.
type Breakdown struct {
	Exact     float64 `json:"exact"`
	Expanded  float64 `json:"expanded"`
	Partial   float64 `json:"partial"`
	Phrase    float64 `json:"phrase"`
	Numerical float64 `json:"numerical"`
}

// Result is a single retrieval hit. Ephemeral, produced per query, never
// persisted.
type Result struct {
	Content    string    `json:"content"`
	Filename   string    `json:"filename"`
	SourceType string    `json:"source_type"`
	ChunkIndex int       `json:"chunk_index"`
	Source     string    `json:"source"` // display label: "<filename> (chunk N)"
	Score      float64   `json:"relevance_score"`
	Breakdown  Breakdown `json:"score_breakdown"`
}
