package db

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig bounds the process-wide connection pool.
type PoolConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
	// RequestTimeout caps each statement server-side and bounds WithTimeout.
	RequestTimeout time.Duration
}

// Manager owns the single pgx pool for the process. The pool is created on
// the first Acquire and reused afterwards; a failed creation leaves nothing
// cached so the next Acquire retries.
type Manager struct {
	cfg  PoolConfig
	open func(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error)

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func NewManager(cfg PoolConfig) *Manager {
	return &Manager{cfg: cfg, open: NewPool}
}

// NewPool parses cfg, builds a pool and pings it.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pcfg.MaxConns = cfg.MaxConns
	pcfg.MinConns = cfg.MinConns
	if cfg.MaxConnIdleTime > 0 {
		pcfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.RequestTimeout > 0 {
		pcfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.RequestTimeout.Milliseconds(), 10)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Acquire returns the shared pool, creating it on first use.
func (m *Manager) Acquire(ctx context.Context) (*pgxpool.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		return m.pool, nil
	}

	pool, err := m.open(ctx, m.cfg)
	if err != nil {
		m.pool = nil
		return nil, err
	}
	m.pool = pool
	return pool, nil
}

// Close tears the pool down. A later Acquire builds a new one.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
	}
}

// Connected reports whether a pool is currently cached.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pool != nil
}

// WithTimeout derives a context bounded by the configured request timeout.
func (m *Manager) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.cfg.RequestTimeout)
}

// Stats returns pool statistics, or nil before the pool exists.
func (m *Manager) Stats() *PoolStats {
	m.mu.Lock()
	pool := m.pool
	m.mu.Unlock()
	if pool == nil {
		return nil
	}
	return GetPoolStats(pool)
}
