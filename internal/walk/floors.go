package walk

import "sort"

// ClusterFloors collapses raw elevation samples (typically the min/max Y
// of every object's bounding volume) into one representative height per
// building level. Samples are deduplicated and sorted, then grouped left
// to right: a gap of FloorGapThreshold or more starts a new level. Each
// level reports the arithmetic mean of its samples.
func ClusterFloors(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	deduped := sorted[:1]
	for _, s := range sorted[1:] {
		if s-deduped[len(deduped)-1] < Epsilon {
			continue
		}
		deduped = append(deduped, s)
	}

	var floors []float64
	groupSum := deduped[0]
	groupN := 1
	last := deduped[0]
	for _, s := range deduped[1:] {
		if s-last >= FloorGapThreshold {
			floors = append(floors, groupSum/float64(groupN))
			groupSum, groupN = 0, 0
		}
		groupSum += s
		groupN++
		last = s
	}
	floors = append(floors, groupSum/float64(groupN))
	return floors
}
