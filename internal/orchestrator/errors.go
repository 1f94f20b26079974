package orchestrator

import "fmt"

// RefinementError reports that the style-refinement stage did not complete or
// returned unusable output. Synthesis is never attempted after one.
type RefinementError struct {
	Err error
}

func (e *RefinementError) Error() string {
	return fmt.Sprintf("refinement failed: %v", e.Err)
}

func (e *RefinementError) Unwrap() error {
	return e.Err
}

// SynthesisError reports that the image-generation stage did not complete or
// returned no image. It carries the already-refined prompt so a caller can
// retry synthesis without paying for refinement again.
type SynthesisError struct {
	RefinedPrompt string
	Err           error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}
