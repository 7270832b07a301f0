package latency

import (
	"math"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// **Feature: trading-dashboard-client, Property 11: RTT Percentiles Match Sorted Samples**

func TestTracker_Percentiles(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("P50/P90/P99 与排序分位数一致", prop.ForAll(
		func(samplesMs []int64) bool {
			if len(samplesMs) == 0 {
				return true
			}

			tr := NewTracker(1000)
			want := make([]int64, 0, len(samplesMs))
			for _, ms := range samplesMs {
				ns := ms * 1_000_000
				tr.Add(ns)
				want = append(want, ns)
			}
			sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

			stats := tr.Stats()
			n := len(want)
			return stats.Count == int64(n) &&
				approxEqual(stats.P50Ms, float64(want[int(float64(n-1)*0.50)])/1e6) &&
				approxEqual(stats.P90Ms, float64(want[int(float64(n-1)*0.90)])/1e6) &&
				approxEqual(stats.P99Ms, float64(want[int(float64(n-1)*0.99)])/1e6)
		},
		gen.SliceOf(gen.Int64Range(0, 5000)),
	))

	properties.TestingRun(t)
}

func TestTracker_WindowEvictsOldest(t *testing.T) {
	tr := NewTracker(3)
	for _, ms := range []int64{100, 200, 300, 1, 2, 3} {
		tr.Add(ms * 1_000_000)
	}

	stats := tr.Stats()
	if stats.Count != 6 {
		t.Errorf("Count = %d, want 6", stats.Count)
	}
	if stats.P99Ms != 2 {
		t.Errorf("P99Ms = %v, want 2", stats.P99Ms)
	}
	if stats.LastMs != 3 {
		t.Errorf("LastMs = %v, want 3", stats.LastMs)
	}
}

func TestTracker_IgnoresNegative(t *testing.T) {
	tr := NewTracker(10)
	tr.Add(-5)

	if got := tr.Stats(); got.Count != 0 || got.P50Ms != 0 {
		t.Errorf("Stats() = %+v, want zero", got)
	}
}

func TestTracker_ZeroWindow(t *testing.T) {
	tr := NewTracker(0)
	tr.Add(7_000_000)

	stats := tr.Stats()
	if stats.Count != 1 || stats.LastMs != 7 {
		t.Errorf("Stats() = %+v, want Count=1 LastMs=7", stats)
	}
	if stats.P50Ms != 0 {
		t.Errorf("P50Ms = %v, want 0", stats.P50Ms)
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}
