package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDocument keeps text blocks in order instead of drawing them
type recordingDocument struct {
	lines    []string
	aligns   []Align
	sizes    []float64
	fontSize float64
	moved    float64
}

func (d *recordingDocument) SetFontSize(size float64) { d.fontSize = size }

func (d *recordingDocument) Text(s string, align Align) {
	d.lines = append(d.lines, s)
	d.aligns = append(d.aligns, align)
	d.sizes = append(d.sizes, d.fontSize)
}

func (d *recordingDocument) MoveDown(lines float64) { d.moved += lines }

func (d *recordingDocument) Bytes() ([]byte, error) { return []byte("recorded"), nil }

func testInvoice() Invoice {
	return Invoice{
		Number:   "EL-202401-4321",
		Name:     "Jane",
		Email:    "jane@x.com",
		Amount:   "5000",
		BillID:   "abc123",
		PaidAt:   "2024-01-01",
		IssuedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLayout_Order(t *testing.T) {
	doc := &recordingDocument{}
	Layout(doc, testInvoice(), DefaultLetterhead())

	want := []string{
		"Easy Latih Consultancy",
		"www.easylatih.my",
		"TAX INVOICE / RECEIPT",
		"Invoice No: EL-202401-4321",
		"Billplz Bill ID: abc123",
		"Date Paid: 2024-01-01",
		"Billed To: Jane <jane@x.com>",
		"Description: Training Registration Fee",
		"Amount (RM): 50.00",
		"Thank you for your payment.",
	}
	assert.Equal(t, want, doc.lines)
	assert.Equal(t, AlignRight, doc.aligns[2], "title is right aligned")
	assert.Equal(t, 18.0, doc.sizes[0])
	assert.Equal(t, 20.0, doc.sizes[2])
	assert.Equal(t, 9.0, doc.sizes[len(doc.sizes)-1])
	assert.Equal(t, 6.5, doc.moved)
}

func TestLayout_OptionalFields(t *testing.T) {
	inv := testInvoice()
	inv.Email = ""
	inv.PaidAt = ""
	inv.Amount = ""

	doc := &recordingDocument{}
	Layout(doc, inv, DefaultLetterhead())

	assert.Contains(t, doc.lines, "Date Paid: -")
	assert.Contains(t, doc.lines, "Billed To: Jane")
	assert.Contains(t, doc.lines, "Amount (RM): 0.00")
}

func TestLayout_AmountInSen(t *testing.T) {
	inv := testInvoice()
	inv.Amount = "10050"

	doc := &recordingDocument{}
	Layout(doc, inv, DefaultLetterhead())

	assert.Contains(t, doc.lines, "Amount (RM): 100.50")
}

func TestRenderer_UsesDocumentFactory(t *testing.T) {
	var got Invoice
	r := &Renderer{
		Letterhead: DefaultLetterhead(),
		NewDocument: func(inv Invoice) Document {
			got = inv
			return &recordingDocument{}
		},
	}

	out, err := r.Render(testInvoice())
	require.NoError(t, err)
	assert.Equal(t, []byte("recorded"), out)
	assert.Equal(t, "EL-202401-4321", got.Number)
}

func uncompressedRenderer() *Renderer {
	return &Renderer{
		Letterhead: DefaultLetterhead(),
		NewDocument: func(inv Invoice) Document {
			return NewPDFDocument(inv.IssuedAt, false)
		},
	}
}

func TestPDFDocument_RendersSinglePagePDF(t *testing.T) {
	inv := testInvoice()
	inv.Amount = "10050"

	out, err := uncompressedRenderer().Render(inv)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output should be a PDF")
	assert.Contains(t, string(out), "100.50")
	assert.Contains(t, string(out), "Invoice No: EL-202401-4321")
	assert.Contains(t, string(out), "abc123")
	assert.Contains(t, string(out), "/Count 1")
}

func TestPDFDocument_Deterministic(t *testing.T) {
	r := uncompressedRenderer()

	first, err := r.Render(testInvoice())
	require.NoError(t, err)
	second, err := r.Render(testInvoice())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPDFDocument_NonLatinNames(t *testing.T) {
	inv := testInvoice()
	inv.Name = "Siti Nur Aisyah – José"

	out, err := uncompressedRenderer().Render(inv)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderer_DefaultCompressedPDF(t *testing.T) {
	out, err := NewRenderer(DefaultLetterhead()).Render(testInvoice())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
