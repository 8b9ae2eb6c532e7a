package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the docket home directory.
	DefaultDirName = ".docket"

	// ExportsDirName is the subdirectory for rendered PDFs and QR images.
	ExportsDirName = "exports"

	// FontsDirName is the subdirectory searched for relative font paths.
	FontsDirName = "fonts"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// PredefinedFileName is the default predefined link list.
	PredefinedFileName = "predefined.json"
)

// Dir represents the docket home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.docket).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// PredefinedPath returns the path to the default predefined list.
func (d *Dir) PredefinedPath() string {
	return filepath.Join(d.path, PredefinedFileName)
}

// ExportsDir returns the directory for exported files.
func (d *Dir) ExportsDir() string {
	return filepath.Join(d.path, ExportsDirName)
}

// ExportPath returns the path for an exported file name.
func (d *Dir) ExportPath(name string) string {
	return filepath.Join(d.ExportsDir(), filepath.Base(name))
}

// FontsDir returns the directory for font files.
func (d *Dir) FontsDir() string {
	return filepath.Join(d.path, FontsDirName)
}

// Resolve returns p unchanged when absolute, otherwise relative to base.
// An empty p stays empty.
func Resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.ExportsDir(), d.FontsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
