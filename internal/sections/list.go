// Package sections holds the editable, caller-owned list of entries a user
// builds up before generating a document.
package sections

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jackzampolin/docket/internal/composer"
)

var (
	// ErrIndexOutOfRange is returned for an index outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrEmptyName is returned when an entry has no name.
	ErrEmptyName = errors.New("entry name is required")
)

// Entry is one user-supplied item. Color is already validated.
type Entry struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string          `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color       *composer.Color `json:"color,omitempty" yaml:"color,omitempty"`
}

// Section converts the entry to a composer section.
func (e Entry) Section() composer.Section {
	s := composer.Section{
		Title: e.Name,
		Body:  e.Description,
		Icon:  e.Icon,
	}
	if e.Color != nil {
		c := *e.Color
		s.Highlight = &c
	}
	return s
}

// List is an ordered collection of entries. It is not safe for concurrent
// use; owners serialize access themselves. Edits apply immediately.
type List struct {
	entries []Entry
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// Add appends e and returns the stored copy. An ID is assigned if e has none.
func (l *List) Add(e Entry) (Entry, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return Entry{}, ErrEmptyName
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	l.entries = append(l.entries, e)
	return e, nil
}

// AddForm parses raw form values and appends the result.
// colorHex may be empty; a malformed value fails with *composer.InvalidColorError.
func (l *List) AddForm(name, description, icon, colorHex string) (Entry, error) {
	color, err := composer.ParseOptionalHex(colorHex)
	if err != nil {
		return Entry{}, err
	}
	return l.Add(Entry{
		Name:        name,
		Description: description,
		Icon:        strings.TrimSpace(icon),
		Color:       color,
	})
}

// Remove deletes the entry at i, keeping the others in order.
func (l *List) Remove(i int) (Entry, error) {
	if err := l.check(i); err != nil {
		return Entry{}, err
	}
	removed := l.entries[i]
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return removed, nil
}

// Swap transposes the entries at i and i+1.
func (l *List) Swap(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	if err := l.check(i + 1); err != nil {
		return fmt.Errorf("no entry after index %d: %w", i, err)
	}
	l.entries[i], l.entries[i+1] = l.entries[i+1], l.entries[i]
	return nil
}

// MoveUp moves the entry at i one position earlier.
func (l *List) MoveUp(i int) error {
	return l.Swap(i - 1)
}

// MoveDown moves the entry at i one position later.
func (l *List) MoveDown(i int) error {
	return l.Swap(i)
}

// Get returns the entry at i.
func (l *List) Get(i int) (Entry, error) {
	if err := l.check(i); err != nil {
		return Entry{}, err
	}
	return l.entries[i], nil
}

// Entries returns a copy of the entries in order.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}

// Clear removes every entry.
func (l *List) Clear() {
	l.entries = nil
}

// Document builds a composer document from the current entries.
func (l *List) Document(title, subtitle string) composer.Document {
	doc := composer.Document{
		Title:    title,
		Subtitle: subtitle,
		Sections: make([]composer.Section, 0, len(l.entries)),
	}
	for _, e := range l.entries {
		doc.Sections = append(doc.Sections, e.Section())
	}
	return doc
}

func (l *List) check(i int) error {
	if i < 0 || i >= len(l.entries) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(l.entries))
	}
	return nil
}
