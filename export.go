package webextract

import (
	"io"
	"time"
)

// Export is the downloadable result of a finished Run.
type Export struct {
	URL         string     `json:"url"`
	Instruction string     `json:"instruction"`
	Result      Extraction `json:"result"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Validate returns an error if the export contains invalid fields.
func (e *Export) Validate() error {
	if e.URL == "" {
		return Errorf(EINVALID, "export URL required")
	}
	return nil
}

// Exporter renders an Export in a file format.
type Exporter interface {
	// Export writes e to w.
	Export(w io.Writer, e *Export) error

	// Extension returns the file extension without the leading dot.
	Extension() string
}
