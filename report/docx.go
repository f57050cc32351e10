package report

import (
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/meetscribe/backend/services/meeting/entity"
)

const (
	docxFontName    = "Calibri"
	docxTitleSize   = 16
	docxHeadingSize = 14
	docxBodySize    = 11
)

// Docx renders meeting reports as Word documents with godocx.
type Docx struct{}

func NewDocx() *Docx {
	return &Docx{}
}

func (r *Docx) Render(m *entity.Meeting, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	addRun(doc.AddParagraph(""), m.Title, true, docxTitleSize)
	doc.AddParagraph("")

	details := [][2]string{
		{"Date:", m.Date},
		{"Duration:", durationOrUnknown(m)},
		{"Language:", m.Language},
	}
	for _, row := range details {
		p := doc.AddParagraph("")
		addRun(p, row[0]+" ", true, docxBodySize)
		addRun(p, row[1], false, docxBodySize)
	}
	doc.AddParagraph("")

	if len(m.Participants) > 0 {
		addRun(doc.AddParagraph(""), "Participants", true, docxHeadingSize)
		for _, participant := range m.Participants {
			addRun(doc.AddParagraph(""), "• "+participant.Name, false, docxBodySize)
		}
		doc.AddParagraph("")
	}

	if m.Summary != nil && *m.Summary != "" {
		addRun(doc.AddParagraph(""), "Summary", true, docxHeadingSize)
		addRun(doc.AddParagraph(""), *m.Summary, false, docxBodySize)
		doc.AddParagraph("")
	}

	if len(m.ActionItems) > 0 {
		addRun(doc.AddParagraph(""), "Action Items", true, docxHeadingSize)
		for _, item := range m.ActionItems {
			addRun(doc.AddParagraph(""), "• "+actionItemLine(item), false, docxBodySize)
		}
		doc.AddParagraph("")
	}

	if len(m.Decisions) > 0 {
		addRun(doc.AddParagraph(""), "Key Decisions", true, docxHeadingSize)
		for _, decision := range m.Decisions {
			addRun(doc.AddParagraph(""), "• "+decision.Text, false, docxBodySize)
		}
		doc.AddParagraph("")
	}

	if m.Transcript != nil && *m.Transcript != "" {
		addRun(doc.AddParagraph(""), "Transcript", true, docxHeadingSize)
		for _, line := range strings.Split(strings.TrimSpace(*m.Transcript), "\n") {
			if strings.TrimSpace(line) == "" {
				doc.AddParagraph("")
				continue
			}
			addRun(doc.AddParagraph(""), line, false, docxBodySize)
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write docx: %w", err)
	}

	return nil
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(docxFontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
