package cmpcodec

import "testing"

func TestZigzagIsPermutation(t *testing.T) {
	var seen [blockSize]bool
	for natural, run := range zigzag {
		if run < 0 || run >= blockSize {
			t.Fatalf("zigzag[%d] = %d out of range", natural, run)
		}
		if seen[run] {
			t.Fatalf("run position %d used twice", run)
		}
		seen[run] = true
		if unzig[run] != natural {
			t.Errorf("unzig[%d] = %d, want %d", run, unzig[run], natural)
		}
	}
}

func TestZigzagOrder(t *testing.T) {
	// The first run positions walk the top-left anti-diagonals.
	want := []int{0, 1, 8, 16, 9, 2, 3, 10, 17, 24}
	for run, natural := range want {
		if unzig[run] != natural {
			t.Errorf("unzig[%d] = %d, want %d", run, unzig[run], natural)
		}
	}
	if unzig[blockSize-1] != blockSize-1 {
		t.Errorf("last run position maps to %d", unzig[blockSize-1])
	}
}

func TestZigzagRoundTrip(t *testing.T) {
	var src, zz, back block
	for i := range src {
		src[i] = int32(i*7 - 100)
	}
	toZigzag(&zz, &src)
	fromZigzag(&back, &zz)
	if back != src {
		t.Errorf("fromZigzag(toZigzag(b)) != b")
	}
	if zz[2] != src[8] {
		t.Errorf("run position 2 holds %d, want natural index 8 (%d)", zz[2], src[8])
	}
}
