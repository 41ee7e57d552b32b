package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/webextract"
)

// FileWriter saves exports as files in a directory. Files are written to a
// temporary name first and renamed into place, so readers never see a
// partial file.
type FileWriter struct {
	dir string
}

// NewFileWriter creates a FileWriter for dir.
func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{dir: dir}
}

// Write renders e with x and returns the path of the written file.
// An existing file with the same name is replaced.
func (fw *FileWriter) Write(e *webextract.Export, x webextract.Exporter) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(fw.dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(fw.dir, FileName(e.URL, x.Extension()))

	tmp, err := os.CreateTemp(fw.dir, ".webextract-*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := x.Export(tmp, e); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}
