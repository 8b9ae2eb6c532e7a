// Package qr renders QR codes as PNG images and as a printable PDF sheet.
// Encoding itself is delegated to go-qrcode.
package qr

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/jackzampolin/docket/internal/composer"
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("QR content is empty")

// Level is an error-correction level name.
type Level string

const (
	LevelLow     Level = "low"
	LevelMedium  Level = "medium"
	LevelHigh    Level = "high"
	LevelHighest Level = "highest"
)

var levels = map[Level]qrcode.RecoveryLevel{
	LevelLow:     qrcode.Low,
	LevelMedium:  qrcode.Medium,
	LevelHigh:    qrcode.High,
	LevelHighest: qrcode.Highest,
}

// Options controls image size and color theme.
type Options struct {
	Size       int // pixels per side
	Level      Level
	Foreground composer.Color
	Background composer.Color
}

// DefaultOptions returns black-on-white 256px codes at medium recovery.
func DefaultOptions() Options {
	return Options{
		Size:       256,
		Level:      LevelMedium,
		Foreground: composer.RGB(0, 0, 0),
		Background: composer.RGB(255, 255, 255),
	}
}

// Validate checks size and level.
func (o Options) Validate() error {
	if o.Size < 21 || o.Size > 4096 {
		return fmt.Errorf("QR size %d out of range [21, 4096]", o.Size)
	}
	if _, ok := levels[o.Level]; !ok {
		return fmt.Errorf("unknown QR level %q", o.Level)
	}
	return nil
}

// ParseLevel maps a level name, case-insensitively, to a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levels[l]; !ok {
		return "", fmt.Errorf("unknown QR level %q", s)
	}
	return l, nil
}

// PNG encodes content as a PNG image.
func PNG(content string, opts Options) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	code, err := qrcode.New(content, levels[opts.Level])
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}
	code.ForegroundColor = toRGBA(opts.Foreground)
	code.BackgroundColor = toRGBA(opts.Background)

	png, err := code.PNG(opts.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to write QR PNG: %w", err)
	}
	return png, nil
}

func toRGBA(c composer.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
