// Package pdfcheck validates generated PDFs before they are handed out.
package pdfcheck

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// Info summarizes a validated PDF.
type Info struct {
	Pages int   `json:"pages" yaml:"pages"`
	Size  int64 `json:"size" yaml:"size"`
}

// Inspect validates data and returns its page count.
func Inspect(data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PDF")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("PDF failed validation: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	return &Info{Pages: pages, Size: int64(len(data))}, nil
}

// InspectFile is Inspect for a file on disk.
func InspectFile(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Inspect(data)
}
