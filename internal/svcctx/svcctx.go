// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/config"
	"github.com/jackzampolin/docket/internal/home"
	"github.com/jackzampolin/docket/internal/predefined"
	"github.com/jackzampolin/docket/internal/qr"
	"github.com/jackzampolin/docket/internal/session"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Sessions   *session.Store
	Predefined *predefined.Store
	Config     *config.Manager
	Logger     *slog.Logger
	Home       *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// SessionsFrom extracts the session store from context.
func SessionsFrom(ctx context.Context) *session.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Sessions
	}
	return nil
}

// PredefinedFrom extracts the predefined link store from context.
func PredefinedFrom(ctx context.Context) *predefined.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Predefined
	}
	return nil
}

// ConfigFrom returns the current configuration, or nil.
func ConfigFrom(ctx context.Context) *config.Config {
	if s := ServicesFrom(ctx); s != nil && s.Config != nil {
		return s.Config.Get()
	}
	return nil
}

// LoggerFrom extracts the logger from context.
// Falls back to slog.Default so handlers can log unconditionally.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// StyleFrom builds the document style from the current configuration.
// Without configuration it returns the default style.
func StyleFrom(ctx context.Context) (composer.Style, error) {
	cfg := ConfigFrom(ctx)
	if cfg == nil {
		return composer.DefaultStyle(), nil
	}
	fontsDir := ""
	if h := HomeFrom(ctx); h != nil {
		fontsDir = h.FontsDir()
	}
	return cfg.Style(fontsDir)
}

// QROptionsFrom builds QR options from the current configuration.
func QROptionsFrom(ctx context.Context) (qr.Options, error) {
	cfg := ConfigFrom(ctx)
	if cfg == nil {
		return qr.DefaultOptions(), nil
	}
	return cfg.QROptions()
}
