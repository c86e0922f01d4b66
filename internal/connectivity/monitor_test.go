package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/snapbasket/snapbasket/internal/logger"
)

func TestMonitorStartsOnline(t *testing.T) {
	m := NewMonitor("http://127.0.0.1:1", logger.New(logger.LevelOff, nil))
	if !m.Online() {
		t.Fatal("monitor should be optimistic before the first probe")
	}
}

func TestMonitorDetectsTransitions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMonitor(srv.URL, logger.New(logger.LevelOff, nil))

	ctx := context.Background()
	m.probe(ctx)
	if !m.Online() {
		t.Fatal("expected online after successful probe")
	}

	// Point the monitor at a dead port to simulate the backend going away.
	m.url = "http://127.0.0.1:1"
	m.probe(ctx)
	if m.Online() {
		t.Fatal("expected offline after failed probe")
	}

	select {
	case ev := <-m.Events():
		if ev != StateOffline {
			t.Errorf("event = %v, want offline", ev)
		}
	default:
		t.Error("no transition event emitted")
	}

	// Back online.
	m.url = srv.URL
	m.probe(ctx)
	if !m.Online() {
		t.Fatal("expected online after recovery")
	}
	select {
	case ev := <-m.Events():
		if ev != StateOnline {
			t.Errorf("event = %v, want online", ev)
		}
	default:
		t.Error("no recovery event emitted")
	}
}

func TestMonitorNoEventWithoutTransition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	m := NewMonitor(srv.URL, logger.New(logger.LevelOff, nil))
	ctx := context.Background()
	m.probe(ctx)
	m.probe(ctx)

	select {
	case ev := <-m.Events():
		t.Errorf("unexpected event %v for steady state", ev)
	default:
	}
}

func TestMonitorErrorStatusCountsAsOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewMonitor(srv.URL, logger.New(logger.LevelOff, nil))
	m.state = StateOffline
	m.probe(context.Background())
	if !m.Online() {
		t.Fatal("an HTTP error response still proves the backend is reachable")
	}
}

func TestMonitorRunStopsOnCancel(t *testing.T) {
	m := NewMonitor("http://127.0.0.1:1", logger.New(logger.LevelOff, nil),
		WithProbeInterval(10*time.Millisecond), WithProbeTimeout(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
