package describer

import (
	"encoding/json"
	"fmt"
	"strings"
)

type descriptionResponse struct {
	Description string `json:"description"`
}

// ParseDescription pulls the description out of a model reply. It tries the
// reply as-is, then the span from the first "{" to the last "}", then a
// fenced code block.
func ParseDescription(text string) (string, error) {
	text = strings.TrimSpace(text)

	for _, candidate := range candidates(text) {
		var result descriptionResponse
		if err := json.Unmarshal([]byte(candidate), &result); err != nil {
			continue
		}
		if d := strings.TrimSpace(result.Description); d != "" {
			return d, nil
		}
	}

	return "", fmt.Errorf("failed to parse description response as JSON: %.200s...", text)
}

func candidates(text string) []string {
	out := []string{text}

	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			out = append(out, text[start:end+1])
		}
	}

	for _, fence := range []string{"```json", "```"} {
		if idx := strings.Index(text, fence); idx >= 0 {
			after := text[idx+len(fence):]
			if end := strings.Index(after, "```"); end >= 0 {
				out = append(out, strings.TrimSpace(after[:end]))
			}
		}
	}
	return out
}
