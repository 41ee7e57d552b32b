// Package etree renders extraction results as XML documents.
package etree

import (
	"io"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/webextract"
)

// Ensure Exporter implements webextract.Exporter at compile time.
var _ webextract.Exporter = (*Exporter)(nil)

// Exporter writes an Export as an <extraction> XML document holding the
// source URL, the instruction, the full text and one <field> per line.
type Exporter struct {
	indent int
}

// NewExporter creates an Exporter that indents nested elements by two
// spaces.
func NewExporter() *Exporter {
	return &Exporter{indent: 2}
}

// Export writes e to w as XML.
func (x *Exporter) Export(w io.Writer, e *webextract.Export) error {
	if err := e.Validate(); err != nil {
		return err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("extraction")
	root.CreateAttr("url", e.URL)
	if !e.CreatedAt.IsZero() {
		root.CreateAttr("created", e.CreatedAt.UTC().Format(time.RFC3339))
	}

	root.CreateElement("instruction").SetText(e.Instruction)

	result := root.CreateElement("result")
	result.CreateElement("text").SetText(e.Result.Text)
	fields := result.CreateElement("fields")
	for _, f := range e.Result.Fields {
		fields.CreateElement("field").SetText(f)
	}

	doc.Indent(x.indent)
	_, err := doc.WriteTo(w)
	return err
}

// Extension returns "xml".
func (x *Exporter) Extension() string {
	return "xml"
}
