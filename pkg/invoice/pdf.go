package invoice

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin     = 50.0 // points, on every side
	lineSpacing    = 1.2
	defaultFont    = "Helvetica"
	defaultFontPts = 12.0
)

// PDFDocument renders a Document onto a single A4 page with fpdf.
type PDFDocument struct {
	pdf      *fpdf.Fpdf
	fontSize float64
	tr       func(string) string
}

// NewPDFDocument starts an A4 page. createdAt is written as the PDF creation
// date so identical content produces identical bytes.
func NewPDFDocument(createdAt time.Time, compress bool) *PDFDocument {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetCompression(compress)
	pdf.SetCreationDate(createdAt)
	pdf.SetCatalogSort(true)
	pdf.AddPage()
	pdf.SetFont(defaultFont, "", defaultFontPts)

	return &PDFDocument{
		pdf:      pdf,
		fontSize: defaultFontPts,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *PDFDocument) SetFontSize(size float64) {
	d.fontSize = size
	d.pdf.SetFontSize(size)
}

func (d *PDFDocument) Text(s string, align Align) {
	alignStr := "L"
	if align == AlignRight {
		alignStr = "R"
	}
	d.pdf.MultiCell(0, d.fontSize*lineSpacing, d.tr(s), "", alignStr, false)
}

func (d *PDFDocument) MoveDown(lines float64) {
	d.pdf.Ln(lines * d.fontSize * lineSpacing)
}

func (d *PDFDocument) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
