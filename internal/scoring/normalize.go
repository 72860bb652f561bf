package scoring

import "math"

// Normalize rescales raw scores to integers in [0,100] relative to the
// largest raw value (max-relative, not min-max). The largest dimension
// becomes exactly 100. The divisor is floored at 1 so an all-zero or
// all-negative vector does not divide by zero.
//
// Negative results are clamped to 0.
func Normalize(raw Vector) Vector {
	maxVal := 1.0
	for _, d := range Dimensions {
		if v := raw.Get(d); v > maxVal {
			maxVal = v
		}
	}

	out := NewVector()
	for _, d := range Dimensions {
		n := math.Round(raw.Get(d) / maxVal * 100)
		if n < 0 {
			n = 0
		}
		out[d] = n
	}
	return out
}
