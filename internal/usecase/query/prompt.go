package query

import "strings"

const promptHeader = "Using the following document content, provide a concise and accurate answer " +
	"to the question. If the document contains relevant information, summarize it clearly. " +
	"If the document does not contain relevant information, state that explicitly. " +
	"Do not speculate beyond the provided content."

// buildPrompt assembles the grounding prompt from the retrieved chunks.
func buildPrompt(question string, chunks []string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nExtracted Content:\n")
	b.WriteString(strings.Join(chunks, "\n\n"))
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	return b.String()
}
