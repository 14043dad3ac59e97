package invoice

import "time"

// Renderer lays invoices out on a Document.
type Renderer struct {
	Letterhead Letterhead

	// NewDocument creates the target document. Defaults to a compressed PDF.
	NewDocument func(inv Invoice) Document
}

// NewRenderer returns a PDF renderer for letterhead.
func NewRenderer(letterhead Letterhead) *Renderer {
	return &Renderer{Letterhead: letterhead}
}

// Render produces the finished document bytes for inv.
func (r *Renderer) Render(inv Invoice) ([]byte, error) {
	newDoc := r.NewDocument
	if newDoc == nil {
		newDoc = func(inv Invoice) Document {
			createdAt := inv.IssuedAt
			if createdAt.IsZero() {
				createdAt = time.Now()
			}
			return NewPDFDocument(createdAt, true)
		}
	}

	doc := newDoc(inv)
	Layout(doc, inv, r.Letterhead)
	return doc.Bytes()
}

// Layout writes the fixed invoice layout: letterhead, title, references,
// payer, line item, amount and a closing line.
func Layout(doc Document, inv Invoice, lh Letterhead) {
	doc.SetFontSize(18)
	doc.Text(lh.IssuerName, AlignLeft)
	doc.MoveDown(0.5)
	doc.SetFontSize(12)
	doc.Text(lh.Website, AlignLeft)
	doc.MoveDown(1)

	doc.SetFontSize(20)
	doc.Text(lh.Title, AlignRight)
	doc.MoveDown(1)

	paidAt := inv.PaidAt
	if paidAt == "" {
		paidAt = "-"
	}
	billedTo := inv.Name
	if inv.Email != "" {
		billedTo += " <" + inv.Email + ">"
	}

	doc.SetFontSize(11)
	doc.Text("Invoice No: "+inv.Number, AlignLeft)
	doc.Text("Billplz Bill ID: "+inv.BillID, AlignLeft)
	doc.Text("Date Paid: "+paidAt, AlignLeft)
	doc.MoveDown(1)
	doc.Text("Billed To: "+billedTo, AlignLeft)
	doc.MoveDown(1)
	doc.Text("Description: "+lh.Description, AlignLeft)
	doc.Text("Amount ("+lh.Currency+"): "+FormatAmount(inv.Amount), AlignLeft)
	doc.MoveDown(2)
	doc.SetFontSize(9)
	doc.Text(lh.ThankYou, AlignLeft)
}
