package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown formats the note as a markdown document stamped with at.
func RenderMarkdown(note Note, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n_%s_\n\n%s\n", note.Title, at.Format("2006-01-02 15:04"), strings.TrimSpace(note.Summary))
	if transcript := strings.TrimSpace(note.Transcript); transcript != "" {
		fmt.Fprintf(&b, "\n## Transcript\n\n%s\n", transcript)
	}
	return b.String()
}
