package scoring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize_MaxBecomes100(t *testing.T) {
	raw := Vector{DimDA: 60, DimOX: 15, Dim5HT: 30, DimACh: 0, DimEN: 45, DimGABA: 6}
	got := Normalize(raw)

	want := Vector{DimDA: 100, DimOX: 25, Dim5HT: 50, DimACh: 0, DimEN: 75, DimGABA: 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_Invariant(t *testing.T) {
	vectors := []Vector{
		{DimDA: 1},
		{DimOX: 3.3, DimEN: 3.3},
		{DimDA: 12.5, DimOX: 7, Dim5HT: 0.2, DimACh: 99, DimEN: 41, DimGABA: 3},
		{DimGABA: 1000, DimACh: 1},
	}

	for _, raw := range vectors {
		got := Normalize(raw)
		peak := 0.0
		for _, d := range Dimensions {
			v := got[d]
			if v < 0 || v > 100 {
				t.Errorf("Normalize(%v)[%s] = %v, out of [0,100]", raw, d, v)
			}
			if v != float64(int(v)) {
				t.Errorf("Normalize(%v)[%s] = %v, want an integer", raw, d, v)
			}
			if v > peak {
				peak = v
			}
		}
		if peak != 100 {
			t.Errorf("Normalize(%v) peak = %v, want 100", raw, peak)
		}
	}
}

func TestNormalize_AllZero(t *testing.T) {
	got := Normalize(NewVector())
	for _, d := range Dimensions {
		if got[d] != 0 {
			t.Errorf("Normalize(zero)[%s] = %v, want 0", d, got[d])
		}
	}
}

func TestNormalize_SmallPositiveUsesFloorOfOne(t *testing.T) {
	got := Normalize(Vector{DimDA: 0.5})
	if got[DimDA] != 50 {
		t.Errorf("DA = %v, want 50 (divisor floored at 1)", got[DimDA])
	}
}

func TestNormalize_NegativeClampedToZero(t *testing.T) {
	got := Normalize(Vector{DimDA: 10, DimOX: -4, DimGABA: -0.01})
	if got[DimOX] != 0 {
		t.Errorf("OX = %v, want 0 (clamped)", got[DimOX])
	}
	if got[DimGABA] != 0 {
		t.Errorf("GABA = %v, want 0", got[DimGABA])
	}
	if got[DimDA] != 100 {
		t.Errorf("DA = %v, want 100", got[DimDA])
	}
}

func TestNormalize_RoundsHalfAwayFromZero(t *testing.T) {
	// 1/8 of 100 = 12.5 → 13.
	got := Normalize(Vector{DimDA: 8, DimOX: 1})
	if got[DimOX] != 13 {
		t.Errorf("OX = %v, want 13", got[DimOX])
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := Vector{DimDA: 20, DimOX: 10}
	_ = Normalize(raw)
	if raw[DimDA] != 20 || raw[DimOX] != 10 {
		t.Errorf("input mutated: %v", raw)
	}
}
