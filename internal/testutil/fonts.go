package testutil

import (
	"os"
	"testing"
)

// fontCandidates are common install locations of DejaVu Sans.
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/local/share/fonts/DejaVuSans.ttf",
	"/Library/Fonts/DejaVuSans.ttf",
}

// SystemFont returns the path of a TrueType font for tests that render
// with a real font file. DOCKET_TEST_FONT overrides the search. The test
// is skipped when no font is installed.
func SystemFont(t *testing.T) string {
	t.Helper()
	if p := os.Getenv("DOCKET_TEST_FONT"); p != "" {
		return p
	}
	for _, p := range fontCandidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Skip("no TrueType font installed; set DOCKET_TEST_FONT to run")
	return ""
}
