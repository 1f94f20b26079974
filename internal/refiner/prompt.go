package refiner

import "fmt"

// styleExpertSystemPrompt is shared by all chat-style providers.
const styleExpertSystemPrompt = `You are an expert in visual art styles and icon design.
When given an art style and description, you create detailed, optimized prompts for generating high-quality icons.
Focus on: composition, color palettes, visual elements, and style-specific techniques.
Keep prompts concise but detailed, suitable for small square icon generation.
Output ONLY the prompt text. No explanations, no quotes, no preamble.`

// buildStylePrompt constructs the user message for the style expert.
func buildStylePrompt(req StyleRequest) string {
	size := req.TargetSize
	if size <= 0 {
		size = DefaultIconSize
	}
	return fmt.Sprintf(`Create a detailed prompt for a %dx%d pixel icon in %s art style.
The icon should depict: %s.
Include specific details about composition, colors, and visual elements
that best represent this style.`,
		size, size, req.ArtStyle, req.Description)
}
