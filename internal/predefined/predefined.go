// Package predefined persists a flat JSON object mapping display names to URLs.
// Key order in the file is the entry order.
package predefined

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalid wraps schema and syntax failures.
var ErrInvalid = errors.New("invalid predefined list")

const schemaURL = "docket://predefined.schema.json"

const schemaSource = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": {"minLength": 1, "pattern": "\\S"},
  "additionalProperties": {
    "type": "string",
    "format": "uri",
    "pattern": "^https?://"
  }
}`

var schema = jsonschema.MustCompileString(schemaURL, schemaSource)

// Entry is one named link.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// List is an ordered set of entries with unique names.
type List []Entry

// Parse validates data and returns the entries in file order.
func Parse(data []byte) (List, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return List{}, nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return decodeOrdered(data)
}

// decodeOrdered walks the top-level object token by token so key order
// survives; a map would lose it.
func decodeOrdered(data []byte) (List, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var list List
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		name, _ := keyTok.(string)

		var url string
		if err := dec.Decode(&url); err != nil {
			return nil, fmt.Errorf("%w: value for %q: %v", ErrInvalid, name, err)
		}
		// Duplicate keys: the last one wins, as with a plain decode.
		list = list.Set(name, url)
	}
	return list, nil
}

// Load reads the list at path. A missing file is an empty list.
func Load(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return List{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	list, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// Marshal encodes the list as an indented JSON object in list order.
func (l List) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range l {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.URL)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	if len(l) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Save writes the list to path through a temporary file and rename.
func (l List) Save(path string) error {
	data, err := l.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode list: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".predefined-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close list: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Validate checks the list against the file schema.
func (l List) Validate() error {
	obj := make(map[string]any, len(l))
	for _, e := range l {
		obj[e.Name] = e.URL
	}
	if err := schema.Validate(obj); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Set replaces the URL of an existing name in place or appends a new entry.
// The receiver is not modified.
func (l List) Set(name, url string) List {
	out := make(List, len(l), len(l)+1)
	copy(out, l)
	for i := range out {
		if out[i].Name == name {
			out[i].URL = url
			return out
		}
	}
	return append(out, Entry{Name: name, URL: url})
}

// Remove drops the named entry. It reports whether the name was present.
func (l List) Remove(name string) (List, bool) {
	out := make(List, 0, len(l))
	found := false
	for _, e := range l {
		if e.Name == name {
			found = true
			continue
		}
		out = append(out, e)
	}
	return out, found
}

// Lookup returns the URL for name.
func (l List) Lookup(name string) (string, bool) {
	for _, e := range l {
		if e.Name == name {
			return e.URL, true
		}
	}
	return "", false
}

// Names returns entry names in order.
func (l List) Names() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.Name
	}
	return out
}

// normalizeName trims a user-supplied name.
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
