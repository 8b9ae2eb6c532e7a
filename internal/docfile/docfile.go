// Package docfile reads document descriptions from YAML or JSON files.
package docfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/sections"
)

// File is the on-disk shape of a document. JSON is read through the same
// decoder since it is a subset of YAML.
type File struct {
	Title    string        `yaml:"title"`
	Subtitle string        `yaml:"subtitle"`
	Sections []SectionFile `yaml:"sections"`
}

// SectionFile is one section entry; Color is a hex string.
type SectionFile struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

// Load reads path and builds the entry list and document it describes.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a document description. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse document file: %w", err)
	}
	return &f, nil
}

// List converts the file's sections into an editable list. Names and
// colors are validated here, so a bad entry is reported by position.
func (f *File) List() (*sections.List, error) {
	list := sections.New()
	for i, s := range f.Sections {
		if _, err := list.AddForm(s.Title, s.Body, s.Icon, s.Color); err != nil {
			return nil, fmt.Errorf("section %d: %w", i+1, err)
		}
	}
	return list, nil
}

// Document converts the file into a composer document.
func (f *File) Document() (composer.Document, error) {
	list, err := f.List()
	if err != nil {
		return composer.Document{}, err
	}
	return list.Document(f.Title, f.Subtitle), nil
}
