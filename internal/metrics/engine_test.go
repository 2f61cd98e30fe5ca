package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	// Vectors without series are not gathered; the plain histogram always is.
	if !names["artwatch_interest_score"] {
		t.Error("engine collectors not registered")
	}
}

func TestStatusOf(t *testing.T) {
	if StatusOf(nil) != StatusOK {
		t.Error("nil error must map to ok")
	}
	if StatusOf(errors.New("x")) != StatusError {
		t.Error("non-nil error must map to error")
	}
}

func TestScoringOutcomesTotal_Counts(t *testing.T) {
	before := testutil.ToFloat64(ScoringOutcomesTotal.WithLabelValues("routine"))
	ScoringOutcomesTotal.WithLabelValues("routine").Inc()
	after := testutil.ToFloat64(ScoringOutcomesTotal.WithLabelValues("routine"))
	if after-before != 1 {
		t.Errorf("expected increment of 1, got %f", after-before)
	}
}
