package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordChartBuild(t *testing.T) {
	before := testutil.ToFloat64(ChartBuildsTotal.WithLabelValues("hourly", "error"))

	RecordChartBuild("hourly", time.Millisecond, errors.New("boom"))

	after := testutil.ToFloat64(ChartBuildsTotal.WithLabelValues("hourly", "error"))
	if after != before+1 {
		t.Errorf("ChartBuildsTotal{hourly,error} = %v, want %v", after, before+1)
	}
}

func TestRecordPayload(t *testing.T) {
	RecordPayload("52.5000,13.4000", 1700000000)

	if got := testutil.ToFloat64(PayloadIssuedAt.WithLabelValues("52.5000,13.4000")); got != 1700000000 {
		t.Errorf("PayloadIssuedAt = %v, want 1700000000", got)
	}
}
