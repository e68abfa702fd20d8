package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestScheduler_AddRejectsBadSpec(t *testing.T) {
	s := New(zerolog.Nop(), time.Second)
	if _, err := s.Add("bad", "not a spec", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestScheduler_NextRun(t *testing.T) {
	s := New(zerolog.Nop(), time.Second)
	if _, err := s.Add("purge", "0 3 * * *", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("add: %v", err)
	}

	next, ok := s.Next("purge")
	if !ok {
		t.Fatal("expected purge to be scheduled")
	}
	if next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("expected 03:00, got %v", next)
	}
	if !next.After(time.Now()) {
		t.Errorf("expected a future run, got %v", next)
	}
	if _, ok := s.Next("missing"); ok {
		t.Error("expected unknown job to be absent")
	}
}

func TestScheduler_NextRunInterval(t *testing.T) {
	s := New(zerolog.Nop(), time.Second)
	if _, err := s.Add("sweep", "@every 1h", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("add: %v", err)
	}

	next, ok := s.Next("sweep")
	if !ok {
		t.Fatal("expected sweep to be scheduled")
	}
	if d := time.Until(next); d <= 59*time.Minute || d > time.Hour {
		t.Errorf("expected next run about an hour out, got %v", d)
	}
}

func TestScheduler_RunAppliesTimeout(t *testing.T) {
	s := New(zerolog.Nop(), 20*time.Millisecond)
	var hadDeadline atomic.Bool

	s.run("probe", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		hadDeadline.Store(ok)
		return nil
	})

	if !hadDeadline.Load() {
		t.Error("expected job context to carry a deadline")
	}
}

func TestScheduler_RunLogsFailure(t *testing.T) {
	s := New(zerolog.Nop(), 0)
	called := false
	s.run("failing", func(ctx context.Context) error {
		called = true
		return errors.New("boom")
	})
	if !called {
		t.Error("expected job to run")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zerolog.Nop(), time.Second)
	var runs atomic.Int32
	if _, err := s.Add("tick", "@every 1s", func(context.Context) error {
		runs.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if runs.Load() == 0 {
		t.Error("expected job to run at least once")
	}
}
