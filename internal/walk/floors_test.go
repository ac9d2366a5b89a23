package walk

import (
	"math"
	"testing"
)

func TestClusterFloorsEmpty(t *testing.T) {
	if got := ClusterFloors(nil); len(got) != 0 {
		t.Fatalf("ClusterFloors(nil) = %v, want empty", got)
	}
}

func TestClusterFloorsSingleSample(t *testing.T) {
	got := ClusterFloors([]float64{2.5})
	if len(got) != 1 || got[0] != 2.5 {
		t.Fatalf("ClusterFloors([2.5]) = %v, want [2.5]", got)
	}
}

func TestClusterFloorsTwoLevels(t *testing.T) {
	got := ClusterFloors([]float64{0.0, 0.05, 3.0, 3.02})
	if len(got) != 2 {
		t.Fatalf("clusters = %v, want 2", got)
	}
	if math.Abs(got[0]-0.025) > 1e-9 {
		t.Fatalf("ground level mean = %v, want 0.025", got[0])
	}
	if math.Abs(got[1]-3.01) > 1e-9 {
		t.Fatalf("upper level mean = %v, want 3.01", got[1])
	}
}

func TestClusterFloorsAllWithinThreshold(t *testing.T) {
	got := ClusterFloors([]float64{1.0, 1.2, 1.4, 1.1})
	if len(got) != 1 {
		t.Fatalf("clusters = %v, want a single floor", got)
	}
	if math.Abs(got[0]-1.175) > 1e-9 {
		t.Fatalf("mean = %v, want 1.175", got[0])
	}
}

func TestClusterFloorsUnsortedInputWithDuplicates(t *testing.T) {
	samples := []float64{6.0, 0.0, 3.0, 0.0, 6.1, 3.0}
	got := ClusterFloors(samples)
	want := []float64{0.0, 3.0, 6.05}
	if len(got) != len(want) {
		t.Fatalf("clusters = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("cluster %d = %v, want %v", i, got[i], want[i])
		}
	}
	// The input slice must not be reordered.
	if samples[0] != 6.0 || samples[1] != 0.0 {
		t.Fatalf("input mutated: %v", samples)
	}
}

func TestClusterFloorsBoundaryGap(t *testing.T) {
	// A gap of exactly the threshold starts a new level.
	got := ClusterFloors([]float64{0.0, 0.5})
	if len(got) != 2 {
		t.Fatalf("clusters = %v, want 2 at exact threshold", got)
	}
	// Just under the threshold merges.
	got = ClusterFloors([]float64{0.0, 0.49})
	if len(got) != 1 {
		t.Fatalf("clusters = %v, want 1 just under threshold", got)
	}
}
