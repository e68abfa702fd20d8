package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// lazyPool builds a pool without connecting; pgxpool dials on first use.
func lazyPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), "postgres://u:p@127.0.0.1:1/medcore")
	if err != nil {
		t.Fatalf("create lazy pool: %v", err)
	}
	return pool
}

func TestManager_RetriesAfterFailedOpen(t *testing.T) {
	var calls int32
	m := NewManager(PoolConfig{MaxConns: 10})
	m.open = func(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("connection refused")
		}
		return lazyPool(t), nil
	}

	if _, err := m.Acquire(context.Background()); err == nil {
		t.Fatal("expected first acquire to fail")
	}
	if m.Connected() {
		t.Fatal("failed open must not leave a cached pool")
	}

	pool, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	defer m.Close()

	again, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != pool {
		t.Error("expected the cached pool to be reused")
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 open calls, got %d", calls)
	}
}

func TestManager_ConcurrentAcquireOpensOnce(t *testing.T) {
	var calls int32
	m := NewManager(PoolConfig{MaxConns: 10})
	m.open = func(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return lazyPool(t), nil
	}
	defer m.Close()

	var wg sync.WaitGroup
	pools := make([]*pgxpool.Pool, 20)
	for i := range pools {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := m.Acquire(context.Background())
			if err != nil {
				t.Errorf("acquire: %v", err)
			}
			pools[i] = p
		}(i)
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected exactly one pool, opened %d", calls)
	}
	for i, p := range pools {
		if p != pools[0] {
			t.Errorf("goroutine %d got a different pool", i)
		}
	}
}

func TestManager_CloseClearsPool(t *testing.T) {
	var calls int32
	m := NewManager(PoolConfig{MaxConns: 10})
	m.open = func(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
		atomic.AddInt32(&calls, 1)
		return lazyPool(t), nil
	}

	if _, err := m.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Close()
	if m.Connected() {
		t.Fatal("expected Close to clear the cached pool")
	}
	if m.Stats() != nil {
		t.Error("expected nil stats after Close")
	}

	if _, err := m.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Close()
	if calls != 2 {
		t.Errorf("expected Acquire after Close to rebuild the pool, opened %d", calls)
	}
}

func TestManager_UnreachableDatabase(t *testing.T) {
	m := NewManager(PoolConfig{
		URL:            "postgres://u:p@127.0.0.1:1/medcore?sslmode=disable",
		MaxConns:       10,
		ConnectTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 0; i < 2; i++ {
		if _, err := m.Acquire(ctx); err == nil {
			t.Fatalf("attempt %d: expected error for unreachable database", i+1)
		}
		if m.Connected() {
			t.Fatalf("attempt %d: pool must not be cached after failure", i+1)
		}
	}
}

func TestNewPool_InvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), PoolConfig{URL: "://not-a-url", MaxConns: 1})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestManager_WithTimeout(t *testing.T) {
	m := NewManager(PoolConfig{RequestTimeout: 50 * time.Millisecond})
	ctx, cancel := m.WithTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if time.Until(deadline) > 50*time.Millisecond {
		t.Errorf("deadline too far in the future: %s", time.Until(deadline))
	}

	unbounded := NewManager(PoolConfig{})
	ctx2, cancel2 := unbounded.WithTimeout(context.Background())
	defer cancel2()
	if _, ok := ctx2.Deadline(); ok {
		t.Error("expected no deadline without a request timeout")
	}
}
