package summarizer

import "strings"

// userMessage joins the instruction and the transcript into one request.
func userMessage(prompt, sourceText string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "Transcript:\n" + sourceText
	}
	return prompt + "\n\nTranscript:\n" + sourceText
}
