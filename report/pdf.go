package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/meetscribe/backend/services/meeting/entity"
)

const (
	pdfTitleSize   = 16
	pdfHeadingSize = 14
	pdfBodySize    = 10
)

// PDF renders meeting reports with go-pdf/fpdf.
type PDF struct{}

func NewPDF() *PDF {
	return &PDF{}
}

func (r *PDF) Render(m *entity.Meeting, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Fixed timestamps keep the output byte-identical for identical input.
	// They must be non-zero: fpdf substitutes time.Now() for a zero time.
	stamp := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", pdfTitleSize)
	pdf.MultiCell(0, 8, tr(m.Title), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", pdfBodySize)
	details := [][2]string{
		{"Date:", m.Date},
		{"Duration:", durationOrUnknown(m)},
		{"Language:", m.Language},
	}
	for _, row := range details {
		pdf.CellFormat(28, 5, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(m.Participants) > 0 {
		r.heading(pdf, "Participants")
		for _, p := range m.Participants {
			r.bullet(pdf, tr, p.Name)
		}
		pdf.Ln(4)
	}

	if m.Summary != nil && *m.Summary != "" {
		r.heading(pdf, "Summary")
		pdf.SetFont("Helvetica", "", pdfBodySize)
		pdf.MultiCell(0, 5, tr(*m.Summary), "", "L", false)
		pdf.Ln(4)
	}

	if len(m.ActionItems) > 0 {
		r.heading(pdf, "Action Items")
		for _, item := range m.ActionItems {
			r.bullet(pdf, tr, actionItemLine(item))
		}
		pdf.Ln(4)
	}

	if len(m.Decisions) > 0 {
		r.heading(pdf, "Key Decisions")
		for _, decision := range m.Decisions {
			r.bullet(pdf, tr, decision.Text)
		}
		pdf.Ln(4)
	}

	if m.Transcript != nil && *m.Transcript != "" {
		r.heading(pdf, "Transcript")
		pdf.SetFont("Helvetica", "", pdfBodySize)
		for _, line := range strings.Split(strings.TrimSpace(*m.Transcript), "\n") {
			if strings.TrimSpace(line) == "" {
				pdf.Ln(3)
				continue
			}
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

func (r *PDF) heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", pdfHeadingSize)
	pdf.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (r *PDF) bullet(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "", pdfBodySize)
	pdf.CellFormat(6, 5, "-", "", 0, "L", false, 0, "")
	pdf.MultiCell(0, 5, tr(text), "", "L", false)
}
