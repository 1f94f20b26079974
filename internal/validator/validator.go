// Package validator checks that a refined prompt is usable for image synthesis.
package validator

import (
	"fmt"
	"strings"
)

// minPromptLength is the minimum rune count for a usable image prompt.
// Anything shorter cannot plausibly carry style and composition detail.
const minPromptLength = 10

// Validator checks refined prompts coming back from a style expert.
type Validator struct{}

// New creates a prompt Validator.
func New() *Validator {
	return &Validator{}
}

// IsUsable returns true when prompt is a plausible image-generation prompt
// for the given raw description.
//
// A usable prompt is non-empty, at least minPromptLength runes long, and not
// simply the raw description handed back unchanged; the style expert must
// have added something.
func (v *Validator) IsUsable(prompt, rawDescription string) (bool, error) {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return false, fmt.Errorf("refined prompt is empty")
	}

	if len([]rune(p)) < minPromptLength {
		return false, fmt.Errorf("refined prompt too short (%d runes)", len([]rune(p)))
	}

	if strings.EqualFold(p, strings.TrimSpace(rawDescription)) {
		return false, fmt.Errorf("refined prompt is identical to the raw description")
	}

	return true, nil
}
