package extract

import (
	"encoding/json"
	"strings"

	"github.com/sells-group/consult-cli/internal/scrape"
)

// SystemPrompt is the fixed extraction instruction.
const SystemPrompt = "You are a helpful assistant. You receive a scraped webpage, and you extract the items " +
	"and return them in valid JSON. Return a list with all fields. " +
	"For 'Document' and 'Responsibility' include the URL as well."

// BuildPrompt returns the system and user messages for one extraction.
func BuildPrompt(page *scrape.Result, fields []string) (system, user string) {
	fieldJSON, _ := json.Marshal(fields)

	var b strings.Builder
	b.WriteString("The extracted webpage:\n")
	if page.URL != "" {
		b.WriteString("Source URL: " + page.URL + "\n")
	}
	if page.Title != "" {
		b.WriteString("Title: " + page.Title + "\n")
	}
	b.WriteString("\n")
	b.WriteString(page.Content)
	b.WriteString("\n\nThe fields you return: ")
	b.Write(fieldJSON)
	b.WriteString("\n")

	return SystemPrompt, b.String()
}
