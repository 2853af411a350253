package llm

import "strings"

// maxPromptText caps how much document text goes into the user prompt.
const maxPromptText = 12000

// BuildSystemPrompt is the fixed instruction template. It names every output
// key so the response maps directly onto the field schema.
func BuildSystemPrompt() string {
	return strings.Join([]string{
		"You are an invoice parser. Return ONLY a JSON object, no prose.",
		"The object must contain exactly these keys:",
		"doc_type (always \"invoice\"), invoice_number, invoice_date,",
		"vendor_name, total_amount (a number), currency (3-letter ISO code).",
		"Use null for any value not present in the text.",
		"Preserve the invoice date exactly as written; do not reformat it.",
	}, " ")
}

// BuildUserPrompt packages the document text, truncated to keep the request
// bounded.
func BuildUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Invoice text:\n")
	if len(text) > maxPromptText {
		b.WriteString(text[:maxPromptText])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}
