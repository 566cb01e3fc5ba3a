// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qr

import "testing"

// finder checks one 7x7 finder pattern at the given corner.
func finder(t *testing.T, m [][]bool, row, col int) {
	t.Helper()
	for r := 0; r < 7; r++ {
		for c := 0; c < 7; c++ {
			outer := r == 0 || r == 6 || c == 0 || c == 6
			inner := r >= 2 && r <= 4 && c >= 2 && c <= 4
			if m[row+r][col+c] != (outer || inner) {
				t.Fatalf("finder mismatch at %d,%d", row+r, col+c)
			}
		}
	}
}

func TestEncodeStructure(t *testing.T) {
	m, err := Encode("http://kiosk.local/admin")
	if err != nil {
		t.Fatalf("encode failed: %s", err)
	}
	size := len(m)
	if (size-17)%4 != 0 || size < 21 || size > 33 {
		t.Fatalf("matrix size %d is not a version 1-4 symbol", size)
	}
	for _, row := range m {
		if len(row) != size {
			t.Fatalf("matrix is not square")
		}
	}
	finder(t, m, 0, 0)
	finder(t, m, 0, size-7)
	finder(t, m, size-7, 0)
	if !m[size-8][8] {
		t.Errorf("dark module missing")
	}

	// timing pattern alternates between the finders.
	for i := 8; i < size-8; i++ {
		if m[6][i] != (i%2 == 0) || m[i][6] != (i%2 == 0) {
			t.Fatalf("timing pattern broken at %d", i)
		}
	}
}

// the same URL must generate the identical matrix: generation happens once
// per URL change and renders must be reproducible.
func TestEncodeDeterministic(t *testing.T) {
	a, err := Encode("http://kiosk.local/admin")
	if err != nil {
		t.Fatalf("encode failed: %s", err)
	}
	b, _ := Encode("http://kiosk.local/admin")
	for r := range a {
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				t.Fatalf("matrices differ at %d,%d", r, c)
			}
		}
	}
}

// longer text selects a larger version; past version 4 capacity is refused.
func TestEncodeCapacity(t *testing.T) {
	short, _ := Encode("x")
	long, _ := Encode("http://kiosk.local/admin/playlists?curator=somebody&view=grid")
	if len(long) <= len(short) {
		t.Errorf("longer text should select a larger version: %d vs %d", len(long), len(short))
	}
	big := make([]byte, 100)
	for i := range big {
		big[i] = 'a'
	}
	if _, err := Encode(string(big)); err == nil {
		t.Errorf("expected capacity error for %d bytes", len(big))
	}
}
