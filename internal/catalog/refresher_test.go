package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/config"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
)

func newTestRefresher(source string, load Loader) *Refresher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRefresher(source, load, NewStore(), config.NewConfig(4000, "testing", "v1"), config.NewBackoffStore(), logger)
}

func TestRefresherRefresh(t *testing.T) {
	first := []models.Location{models.MustLocation(`{"id":"a","coordinates":[40.9151,-73.1230]}`)}
	fail := false
	r := newTestRefresher("test-refresh", func(ctx context.Context) ([]models.Location, error) {
		if fail {
			return nil, errors.New("upstream down")
		}
		return first, nil
	})

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if r.Store.Len() != 1 {
		t.Fatalf("expected 1 lot, got %d", r.Store.Len())
	}
	source, at := r.Config.LotsLoaded()
	if source != "test-refresh" || at.IsZero() {
		t.Errorf("expected the load to be recorded, got %q at %v", source, at)
	}

	fail = true
	if err := r.Refresh(context.Background()); err == nil {
		t.Fatal("expected the refresh to fail")
	}
	if r.Store.Len() != 1 {
		t.Error("expected the previous catalog to be kept after a failure")
	}
	if _, backingOff := r.Backoff.NextRetryAt("test-refresh"); !backingOff {
		t.Error("expected the source to back off after a failure")
	}

	fail = false
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if _, backingOff := r.Backoff.NextRetryAt("test-refresh"); backingOff {
		t.Error("expected the backoff to be reset after a success")
	}
}

func TestRefresherRun(t *testing.T) {
	var calls atomic.Int32
	r := newTestRefresher("test-run", func(ctx context.Context) ([]models.Location, error) {
		calls.Add(1)
		return []models.Location{models.MustLocation(`{"id":"a"}`)}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if calls.Load() < 2 {
		t.Errorf("expected several refreshes, got %d", calls.Load())
	}
	if r.Store.Len() != 1 {
		t.Errorf("expected 1 lot, got %d", r.Store.Len())
	}
}

func TestRefresherNextWait(t *testing.T) {
	r := newTestRefresher("test-wait", nil)

	if got := r.nextWait(time.Hour); got != time.Hour {
		t.Errorf("expected the full interval without backoff, got %v", got)
	}

	r.Backoff.UpdateBackoff("test-wait")
	if got := r.nextWait(time.Hour); got > 2*time.Second {
		t.Errorf("expected the backoff delay to win, got %v", got)
	}
	if got := r.nextWait(time.Millisecond); got != time.Millisecond {
		t.Errorf("expected a short interval to win, got %v", got)
	}
}

func TestRefresherRunDisabled(t *testing.T) {
	var calls atomic.Int32
	r := newTestRefresher("test-disabled", func(ctx context.Context) ([]models.Location, error) {
		calls.Add(1)
		return nil, nil
	})

	done := make(chan struct{})
	go func() {
		r.Run(context.Background(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with a zero interval should return immediately")
	}
	if calls.Load() != 0 {
		t.Errorf("expected no refreshes, got %d", calls.Load())
	}
}
