package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/nguyentantai21042004/notetaker/internal/pipeline"
)

const rule = "----------------------------------------"

var icons = map[string]string{
	"mic":  "(o)",
	"stop": "[#]",
}

// Render writes one frame for s.
func Render(w io.Writer, s pipeline.Status) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "%s\n\n", s.DisplayText())
	if s.Busy() {
		b.WriteString("Summarizing...\n")
	}
	switch s.Action() {
	case pipeline.ActionNone:
		b.WriteString("Please wait, q to quit\n")
	default:
		fmt.Fprintf(&b, "%s %s: press Enter, q to quit\n", icons[s.Icon()], s.ToggleLabel())
	}
	_, _ = io.WriteString(w, b.String())
}
