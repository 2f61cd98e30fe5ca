package health

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/artwatch/internal/domain/feature"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockFeatureLister struct {
	err       error
	lastLimit int
}

func (m *mockFeatureLister) ListAll(_ context.Context, limit int) ([]feature.Record, error) {
	m.lastLimit = limit
	return nil, m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	fl := &mockFeatureLister{}
	svc := New(&mockDBPinger{}, fl)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["features"] != CheckOK {
		t.Errorf("expected features %q, got %q", CheckOK, r.Checks["features"])
	}
	if fl.lastLimit != 1 {
		t.Errorf("expected check limit 1, got %d", fl.lastLimit)
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, &mockFeatureLister{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Checks["features"] != CheckOK {
		t.Errorf("expected features %q, got %q", CheckOK, r.Checks["features"])
	}
}

func TestCheck_FeaturesError(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockFeatureLister{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["features"] != CheckError {
		t.Errorf("expected features %q, got %q", CheckError, r.Checks["features"])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(
		&mockDBPinger{err: errors.New("db down")},
		&mockFeatureLister{err: errors.New("features down")},
	)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoFeatures(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["features"]; ok {
		t.Error("features check should be absent when lister is nil")
	}
}

func TestCheck_NoFeatures_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("fail")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}
