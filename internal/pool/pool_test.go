package pool

import (
	"testing"

	"github.com/seedfinder/balatro/internal/simd"
)

func TestDrawTerminatesForEveryU(t *testing.T) {
	p := New([]string{"a", "b", "c"}, []float64{1, 2, 3})
	for i := 0; i < 1000; i++ {
		u := float64(i) / 1000.0
		v, idx := p.Draw(u)
		if idx < 0 || idx >= p.Len() {
			t.Fatalf("u=%v produced out-of-range index %d", u, idx)
		}
		if v != p.Values[idx] {
			t.Fatalf("value/index mismatch at u=%v", u)
		}
	}
	// u arbitrarily close to 1 must still terminate (spec §8, "Pool
	// termination" — weight inflation guards floating-point drift).
	v, idx := p.Draw(0.9999999999999999)
	if idx != 2 || v != "c" {
		t.Fatalf("u near 1 resolved to idx=%d v=%v, want last entry", idx, v)
	}
}

func TestDrawRespectsWeightProportion(t *testing.T) {
	p := New([]string{"a", "b"}, []float64{1, 3})
	// total=4; u<0.25 -> a, else -> b
	if v, _ := p.Draw(0.1); v != "a" {
		t.Fatalf("u=0.1 got %v, want a", v)
	}
	if v, _ := p.Draw(0.5); v != "b" {
		t.Fatalf("u=0.5 got %v, want b", v)
	}
}

func TestVectorDrawMatchesScalar(t *testing.T) {
	p := New([]int{10, 20, 30, 40}, []float64{1, 1, 1, 1})
	var u simd.Vec8f64
	for i := range u {
		u[i] = float64(i) / 8.0
	}
	got := p.VectorDraw(u)
	for lane := 0; lane < simd.Lanes; lane++ {
		_, wantIdx := p.Draw(u[lane])
		if got[lane] != wantIdx {
			t.Fatalf("lane %d: vector idx=%d scalar idx=%d", lane, got[lane], wantIdx)
		}
	}
}
