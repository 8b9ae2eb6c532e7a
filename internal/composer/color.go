package composer

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a validated RGB triple. The zero value is black.
// Obtain one from ParseHex; the composer never sees raw color strings.
type Color struct {
	R, G, B uint8
}

// RGB returns a Color from its channel values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ParseHex parses a 6-hex-digit color string, with or without a leading '#'.
// "#4CAF50" and "4caf50" both yield RGB(76, 175, 80).
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, &InvalidColorError{Value: s, Reason: "expected 6 hex digits"}
	}

	var channels [3]uint8
	for i := range channels {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, &InvalidColorError{
				Value:  s,
				Reason: fmt.Sprintf("invalid hex pair %q", hex[i*2:i*2+2]),
			}
		}
		channels[i] = uint8(v)
	}

	return Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// MustParseHex is like ParseHex but panics on error.
// Intended for package-level literals.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so JSON boundaries
// reject malformed colors at decode time.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseOptionalHex parses s, returning nil for an empty string.
func ParseOptionalHex(s string) (*Color, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	c, err := ParseHex(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
