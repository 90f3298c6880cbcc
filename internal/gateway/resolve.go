package gateway

import (
	"context"
	"fmt"

	"github.com/dshills/qualitymap/internal/config"
	"github.com/dshills/qualitymap/internal/platform/logger"
	"github.com/dshills/qualitymap/internal/store"
)

var (
	_ Gateway = (*HTTPGateway)(nil)
	_ Gateway = (*MockGateway)(nil)
	_ Gateway = (*store.Store)(nil)
)

// Resolve builds the gateway selected by cfg.Gateway.Mode. The returned
// close function releases the local database and is never nil.
func Resolve(ctx context.Context, cfg *config.Config, log *logger.Logger) (Gateway, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Gateway.Mode {
	case "http":
		g, err := NewHTTP(cfg.Gateway.BaseURL, cfg.Gateway.Token, cfg.Gateway.Timeout)
		if err != nil {
			return nil, noop, err
		}
		return g, noop, nil
	case "local", "":
		s, err := OpenStore(ctx, cfg.Store, log)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("gateway: unknown mode %q", cfg.Gateway.Mode)
	}
}

// OpenStore opens and migrates the local database.
func OpenStore(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (*store.Store, error) {
	s, err := store.Open(cfg.Driver, cfg.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("gateway: %w", err)
	}
	return s, nil
}
