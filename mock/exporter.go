package mock

import (
	"io"

	"github.com/fwojciec/webextract"
)

var _ webextract.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of webextract.Exporter.
type Exporter struct {
	ExportFn    func(w io.Writer, e *webextract.Export) error
	ExtensionFn func() string
}

func (x *Exporter) Export(w io.Writer, e *webextract.Export) error {
	return x.ExportFn(w, e)
}

func (x *Exporter) Extension() string {
	return x.ExtensionFn()
}
