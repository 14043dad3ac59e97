package invoice

// Align positions a text block horizontally.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Document is the small set of layout primitives an invoice needs.
// Implementations flow text top to bottom on a single page.
type Document interface {
	// SetFontSize sets the size, in points, for subsequent text.
	SetFontSize(size float64)

	// Text appends a block of text on a new line.
	Text(s string, align Align)

	// MoveDown advances the cursor by lines at the current font size.
	MoveDown(lines float64)

	// Bytes finalizes the document. It must be called at most once.
	Bytes() ([]byte, error)
}
