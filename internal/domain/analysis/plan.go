// Package analysis holds the value objects of the agentic analysis loop:
// plans, step results, execution records, and the final answer envelope.
package analysis

// Step is one planned tool invocation. JSON field names match the shape the
// planning model is asked to produce.
type Step struct {
	Number      int      `json:"step"`
	Tool        string   `json:"tool"`
	Description string   `json:"description"`
	Query       string   `json:"query,omitempty"`
	Inputs      []string `json:"inputs,omitempty"`
}

// Plan is the ordered step list produced once per user query. Immutable after
// creation; the executor consumes it read-only.
type Plan []Step

// Renumber assigns dense 1-based step numbers in list order, restoring the
// plan invariant after insertions or a model response with gaps.
func (p Plan) Renumber() {
	for i := range p {
		p[i].Number = i + 1
	}
}

// Tools returns the tool name of every step in order.
func (p Plan) Tools() []string {
	out := make([]string, len(p))
	for i, s := range p {
		out[i] = s.Tool
	}
	return out
}
