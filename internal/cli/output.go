package cli

import (
	"fmt"
	"io"
)

// formatter prints user-facing results; logs go through the logger.
type formatter struct {
	w io.Writer
}

func newFormatter(w io.Writer) *formatter {
	return &formatter{w: w}
}

func (f *formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *formatter) Check(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func (f *formatter) Note(source, summary, markdownPath string) {
	fmt.Fprintf(f.w, "\n📝 %s\n%s\n", source, summary)
	if markdownPath != "" {
		fmt.Fprintf(f.w, "📁 Saved: %s\n", markdownPath)
	}
}
