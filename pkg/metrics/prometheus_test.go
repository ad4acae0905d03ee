package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordRefresh("ok", 1.5)
	r.RecordRefresh("ok", 0.5)
	r.RecordRefresh("generation_error", 2)
	r.RecordError("persistence")
	r.RecordLivewireSize(7)
	r.RecordLastSuccess(time.Unix(1700000000, 0))

	if got := testutil.ToFloat64(r.refreshTotal.WithLabelValues("ok")); got != 2 {
		t.Fatalf("refresh ok = %v", got)
	}
	if got := testutil.ToFloat64(r.errorsTotal.WithLabelValues("persistence")); got != 1 {
		t.Fatalf("errors = %v", got)
	}
	if got := testutil.ToFloat64(r.livewireSize); got != 7 {
		t.Fatalf("livewire = %v", got)
	}
	if got := testutil.ToFloat64(r.lastSuccess); got != 1700000000 {
		t.Fatalf("last success = %v", got)
	}
}
