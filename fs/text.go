package fs

import (
	"io"

	"github.com/fwojciec/webextract"
)

// Ensure TextExporter implements webextract.Exporter at compile time.
var _ webextract.Exporter = (*TextExporter)(nil)

// TextExporter writes the extracted text as is.
type TextExporter struct{}

// NewTextExporter creates a new TextExporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export writes the result text of e to w.
func (x *TextExporter) Export(w io.Writer, e *webextract.Export) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := io.WriteString(w, e.Result.Text)
	return err
}

// Extension returns "txt".
func (x *TextExporter) Extension() string {
	return "txt"
}
