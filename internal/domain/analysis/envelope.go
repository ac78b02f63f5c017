package analysis

// Envelope is the final answer returned for one query. On failure or timeout
// only Success, Error, Answer, Timeout and ProcessingTimeSeconds are set.
type Envelope struct {
	Success               bool             `json:"success"`
	Answer                string           `json:"answer"`
	Error                 string           `json:"error,omitempty"`
	Timeout               bool             `json:"timeout,omitempty"`
	Plan                  Plan             `json:"plan,omitempty"`
	Intermediate          *ExecutionResult `json:"intermediate_results,omitempty"`
	Confidence            float64          `json:"confidence"`
	Sources               []string         `json:"sources,omitempty"`
	ProcessingTimeSeconds float64          `json:"processing_time"`
}
