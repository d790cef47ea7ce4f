package chat

import (
	"fmt"
	"strings"
)

// FormatResponse lays out a reply as title, explanation and an optional note.
func FormatResponse(title, explanation, note string) string {
	out := strings.TrimSpace(fmt.Sprintf("%s\n\nExplanation:\n%s\n", title, explanation))
	if note != "" {
		out = strings.TrimRight(out+fmt.Sprintf("\n\nNote:\n%s\n", note), " \t\r\n")
	}
	return out
}
