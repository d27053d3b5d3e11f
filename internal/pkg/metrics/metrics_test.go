//go:build unit

package metrics_test

import (
	"testing"

	"proximity-pay/internal/pkg/errs"
	"proximity-pay/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "ok"},
		{name: "marked gone", err: errs.Mark(errs.New("session expired at 12:00"), errs.ErrGone), want: "gone"},
		{name: "wrapped duplicate", err: errs.Wrap(errs.ErrDuplicateRequest, "settle"), want: "duplicate"},
		{name: "unclassified", err: errs.New("boom"), want: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.Outcome(tt.err))
		})
	}
}

func TestObserveSessionOperation(t *testing.T) {
	before := testutil.ToFloat64(metrics.SessionOperationsTotal.WithLabelValues("lock", "conflict"))

	metrics.ObserveSessionOperation("lock", errs.Mark(errs.New("lost race"), errs.ErrConflict))

	after := testutil.ToFloat64(metrics.SessionOperationsTotal.WithLabelValues("lock", "conflict"))
	assert.Equal(t, before+1, after)
}
