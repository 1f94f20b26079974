// Package usage accumulates model usage across the stages of an icon request.
//
// The tracker is passed explicitly to whatever runs the pipeline; there is no
// implicit shared state between providers. A nil *Tracker is valid and all
// methods are no-ops on it.
package usage

// Tracker counts tokens spent on prompt refinement and images produced by
// synthesis. Not safe for concurrent use; the pipeline is sequential.
type Tracker struct {
	PromptTokens     int
	CompletionTokens int
	Images           int
	Requests         int
}

// AddTokens records token usage reported by a text model call.
func (t *Tracker) AddTokens(prompt, completion int) {
	if t == nil {
		return
	}
	t.PromptTokens += prompt
	t.CompletionTokens += completion
	t.Requests++
}

// AddImages records images produced by a synthesis call.
func (t *Tracker) AddImages(n int) {
	if t == nil {
		return
	}
	t.Images += n
	t.Requests++
}

// TotalTokens returns the combined prompt and completion token count.
func (t *Tracker) TotalTokens() int {
	if t == nil {
		return 0
	}
	return t.PromptTokens + t.CompletionTokens
}
