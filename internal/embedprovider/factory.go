package embedprovider

import (
	"context"
	"log/slog"
	"strings"
)

// ProviderKind names one of the supported embedding back-ends.
type ProviderKind string

const (
	KindStatic   ProviderKind = "static256"
	KindFallback ProviderKind = "httpfallback384"
	KindNone     ProviderKind = "none"
)

// Config selects and configures the active embedding provider.
type Config struct {
	Kind      string // "static256" (default), "httpfallback384", or "none"
	Endpoint  string // required for httpfallback384
	CacheSize int
}

// New builds the configured provider, wrapped in the LRU/singleflight
// cache. On any misconfiguration it degrades to None rather than
// erroring: an absent embedding provider is a specified graceful path,
// not a startup failure.
func New(ctx context.Context, cfg Config) Provider {
	var inner Provider

	switch ProviderKind(strings.ToLower(cfg.Kind)) {
	case KindFallback:
		if cfg.Endpoint == "" {
			slog.Warn("embedding_fallback_missing_endpoint", slog.String("kind", cfg.Kind))
			inner = NewNone()
			break
		}
		fb := NewHTTPFallback(cfg.Endpoint)
		if !fb.Available(ctx) {
			slog.Warn("embedding_fallback_unavailable", slog.String("endpoint", cfg.Endpoint))
			inner = NewNone()
			break
		}
		inner = fb

	case KindNone:
		inner = NewNone()

	case KindStatic, "":
		inner = NewStatic()

	default:
		slog.Warn("embedding_provider_unknown", slog.String("kind", cfg.Kind))
		inner = NewStatic()
	}

	if inner.Dim() == 0 {
		return inner
	}

	return NewCached(inner, cfg.CacheSize)
}
