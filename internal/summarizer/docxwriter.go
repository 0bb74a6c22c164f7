package summarizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	textColor = "000000"
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
)

// Note is a summarized recording ready for export.
type Note struct {
	Title      string
	Summary    string // markdown
	Transcript string
}

type blockKind int

const (
	blockSkip blockKind = iota
	blockHeading
	blockBullet
	blockText
)

// block is one summary line reduced to what the docx needs.
type block struct {
	kind  blockKind
	level int
	text  string
}

// parseBlock understands the markdown subset chat models answer with:
// headings, bullets, numbered items, rules and paragraphs.
func parseBlock(line string) block {
	line = strings.TrimSpace(line)
	switch {
	case line == "" || line == "---":
		return block{kind: blockSkip}
	case reHeading.MatchString(line):
		m := reHeading.FindStringSubmatch(line)
		return block{kind: blockHeading, level: len(m[1]), text: m[2]}
	case reBullet.MatchString(line):
		return block{kind: blockBullet, text: "• " + reBullet.FindStringSubmatch(line)[1]}
	default:
		// numbered items keep their number
		return block{kind: blockText, text: line}
	}
}

// WriteDocx renders the note as a styled docx file: the title, the summary
// with its markdown structure, then the transcript.
func WriteDocx(note Note, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), note.Title, true, headingSize(1))

	for _, line := range strings.Split(note.Summary, "\n") {
		b := parseBlock(line)
		switch b.kind {
		case blockHeading:
			addStyledRun(doc.AddParagraph(""), b.text, true, headingSize(b.level))
		case blockBullet, blockText:
			addRichText(doc.AddParagraph(""), b.text)
		}
	}

	if transcript := strings.TrimSpace(note.Transcript); transcript != "" {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), "Transcript", true, headingSize(2))
		for _, para := range strings.Split(transcript, "\n") {
			if para = strings.TrimSpace(para); para != "" {
				addStyledRun(doc.AddParagraph(""), para, false, fontSize)
			}
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func headingSize(level int) uint64 {
	if level >= 1 && level <= 3 {
		return uint64(17 - level)
	}
	return fontSize
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color(textColor)
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans bold and strips other inline markup.
func addRichText(p *docx.Paragraph, text string) {
	plain := reBold.Split(text, -1)
	bold := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range plain {
		if part != "" {
			addStyledRun(p, part, false, fontSize)
		}
		if i < len(bold) {
			addStyledRun(p, bold[i][1], true, fontSize)
		}
	}
}

func cleanMarkdownInline(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}
