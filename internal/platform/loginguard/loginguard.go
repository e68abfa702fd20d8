// Package loginguard counts failed logins per identifier and locks the
// identifier out once too many failures happen inside the window.
package loginguard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/apperr"
)

const keyPrefix = "LOGIN_FAIL:"

// Store keeps failure counters that expire window after the first failure.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

type Guard struct {
	store       Store
	maxAttempts int64
	window      time.Duration
	logger      zerolog.Logger
}

// New returns a guard allowing maxAttempts failures per window. A
// non-positive maxAttempts disables locking.
func New(store Store, maxAttempts int, window time.Duration, logger zerolog.Logger) *Guard {
	return &Guard{store: store, maxAttempts: int64(maxAttempts), window: window, logger: logger}
}

func key(scope, identifier string) string {
	return keyPrefix + scope + ":" + strings.ToLower(strings.TrimSpace(identifier))
}

// Check fails with 429 when identifier is locked out.
func (g *Guard) Check(ctx context.Context, scope, identifier string) error {
	if g == nil || g.maxAttempts <= 0 {
		return nil
	}
	n, err := g.store.Get(ctx, key(scope, identifier))
	if err != nil {
		// A broken counter store must not block logins.
		g.logger.Error().Err(err).Str("scope", scope).Msg("login guard lookup failed")
		return nil
	}
	if n >= g.maxAttempts {
		return apperr.TooManyRequests(apperr.CodeLoginLocked,
			fmt.Sprintf("Too many failed login attempts. Try again in %s.", g.window))
	}
	return nil
}

// Fail records a failed attempt.
func (g *Guard) Fail(ctx context.Context, scope, identifier string) {
	if g == nil || g.maxAttempts <= 0 {
		return
	}
	n, err := g.store.Incr(ctx, key(scope, identifier), g.window)
	if err != nil {
		g.logger.Error().Err(err).Str("scope", scope).Msg("login guard increment failed")
		return
	}
	if n == g.maxAttempts {
		g.logger.Warn().Str("scope", scope).Str("identifier", identifier).Msg("login locked after repeated failures")
	}
}

// Reset clears the counter after a successful login.
func (g *Guard) Reset(ctx context.Context, scope, identifier string) {
	if g == nil || g.maxAttempts <= 0 {
		return
	}
	if err := g.store.Reset(ctx, key(scope, identifier)); err != nil {
		g.logger.Error().Err(err).Str("scope", scope).Msg("login guard reset failed")
	}
}
