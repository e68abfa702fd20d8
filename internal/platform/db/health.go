package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthTimeout = 5 * time.Second

// PoolStats is the JSON view of pgxpool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
	Healthy         bool   `json:"healthy"`
}

func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
		Healthy:         stat.TotalConns() > 0,
	}
}

// HealthReport is the body of GET /health/db.
type HealthReport struct {
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	LatencyMS int64      `json:"latency_ms"`
	Pool      *PoolStats `json:"pool"`
}

// Check acquires the pool (retrying a failed start) and pings it.
func (m *Manager) Check(ctx context.Context) *HealthReport {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	start := time.Now()
	pool, err := m.Acquire(ctx)
	if err == nil {
		err = pool.Ping(ctx)
	}
	report := &HealthReport{Status: "healthy", LatencyMS: time.Since(start).Milliseconds(), Pool: m.Stats()}
	if err != nil {
		report.Status = "unhealthy"
		report.Error = err.Error()
	}
	return report
}

// HealthHandler answers 200 with a healthy report or 503 otherwise.
func HealthHandler(m *Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		report := m.Check(c.Request().Context())
		status := http.StatusOK
		if report.Error != "" {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, report)
	}
}
