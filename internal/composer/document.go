// Package composer lays out a titled sequence of sections into a paginated PDF.
//
// Rendering is a pure function of a Document and a Style: every font, size,
// slant and fill decision is read from the Style for each block rather than
// carried over from a previous write.
package composer

import "strings"

// Section is one titled block of content.
type Section struct {
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Highlight *Color `json:"highlight,omitempty"`
}

// Heading returns the display title with the icon prefix applied.
func (s Section) Heading() string {
	if s.Icon == "" {
		return s.Title
	}
	return s.Icon + " " + s.Title
}

// HasBody reports whether the section has body text to render.
// Whitespace-only bodies count as empty.
func (s Section) HasBody() bool {
	return strings.TrimSpace(s.Body) != ""
}

// Document is the unit passed to Render: a title, a subtitle and
// the sections in display order.
type Document struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Sections []Section `json:"sections"`
}
