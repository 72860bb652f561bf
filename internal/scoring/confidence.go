package scoring

import "sort"

// EstimateConfidence measures how decisively the best match stands out
// from the other reference types. The input is not modified.
//
// No distances yields 0 and a single distance yields 0.5. Otherwise the
// gap between the best and second-best distance, relative to the mean
// distance, lifts confidence from 0.5 toward 0.9. The result is kept
// within [0.3, 0.9].
func EstimateConfidence(distances []float64) float64 {
	switch len(distances) {
	case 0:
		return 0
	case 1:
		return 0.5
	}

	sorted := make([]float64, len(distances))
	copy(sorted, distances)
	sort.Float64s(sorted)

	gap := sorted[1] - sorted[0]

	var total float64
	for _, d := range sorted {
		total += d
	}
	avg := total / float64(len(sorted))
	if avg == 0 {
		return 0.5
	}

	conf := 0.5 + gap/avg*0.3
	if conf > 0.9 {
		conf = 0.9
	}
	if conf < 0.3 {
		conf = 0.3
	}
	return conf
}
