package artwatch

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("new observer: %v", err)
	}

	obs.observe("score", time.Now(), nil)
	obs.observe("score", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("score", "ok")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("score", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("expected the registered counter to be reused")
	}
}

func TestObserver_LogsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs, err := newObserver(logger, nil)
	if err != nil {
		t.Fatalf("new observer: %v", err)
	}

	obs.observe("similar", time.Now(), errors.New("store down"), "artwork_id", "a1")

	out := buf.String()
	if !strings.Contains(out, "operation failed") || !strings.Contains(out, "artwork_id=a1") {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestObserver_Nil(t *testing.T) {
	var obs *observer
	obs.observe("noop", time.Now(), nil)
}
