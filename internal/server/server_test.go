package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	s := New(Options{Health: func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("database is locked")
	}}, discard())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	if code, body := get(t, ts.URL+"/healthz"); code != http.StatusOK || !strings.Contains(body, "ok") {
		t.Errorf("healthy: got %d %q", code, body)
	}

	healthy.Store(false)
	if code, _ := get(t, ts.URL+"/healthz"); code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy: expected 503, got %d", code)
	}
}

func TestMetricsAndMount(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "standbys_up 1\n")
	})
	s := New(Options{Metrics: metrics}, discard())
	s.Mount("/standby.v1.StandbyService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "rpc "+r.URL.Path)
	}))
	s.Mount("/standby.v1.PanicService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	if code, body := get(t, ts.URL+"/metrics"); code != http.StatusOK || body != "standbys_up 1\n" {
		t.Errorf("metrics: got %d %q", code, body)
	}

	resp, err := http.Post(ts.URL+"/standby.v1.StandbyService/ListStandbys", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "rpc /standby.v1.StandbyService/ListStandbys" {
		t.Errorf("mounted handler got %q", body)
	}

	if code, _ := get(t, ts.URL+"/standby.v1.PanicService/Boom"); code != http.StatusInternalServerError {
		t.Errorf("panic: expected 500, got %d", code)
	}
	if code, _ := get(t, ts.URL+"/nowhere"); code != http.StatusNotFound {
		t.Errorf("unknown path: expected 404, got %d", code)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(Options{Addr: "127.0.0.1:0"}, discard())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
