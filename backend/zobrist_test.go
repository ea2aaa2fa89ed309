package main

import "testing"

func TestZobristIncrementalMatchesRecompute(t *testing.T) {
	b := NewBoard(4, 7, 6)
	cols := []int{3, 3, 2, 4, 2, 5, 0, 6, 1}
	for _, col := range cols {
		b.Play(col)
		if got, want := b.Hash(), ComputeHash(b); got != want {
			t.Fatalf("after column %d: incremental hash %#x != recomputed %#x", col, got, want)
		}
	}
}

func TestZobristTranspositionsCollide(t *testing.T) {
	// Two move orders reaching identical occupancy must hash the same.
	a := NewBoard(4, 7, 6)
	playSequence(t, &a, 0, 1, 2, 3)
	b := NewBoard(4, 7, 6)
	playSequence(t, &b, 2, 3, 0, 1)
	if a.Hash() != b.Hash() {
		t.Fatalf("transposed positions hash %#x and %#x, want equal", a.Hash(), b.Hash())
	}
}

func TestZobristDistinguishesPlayers(t *testing.T) {
	a := NewBoard(4, 7, 6)
	playSequence(t, &a, 0, 1)
	b := NewBoard(4, 7, 6)
	playSequence(t, &b, 1, 0)
	if a.Hash() == b.Hash() {
		t.Fatalf("same cells with swapped owners hashed equal")
	}
}

func TestZobristTableSharedPerGridSize(t *testing.T) {
	if GetZobrist(7, 6) != GetZobrist(7, 6) {
		t.Fatalf("same grid size returned distinct tables")
	}
	if GetZobrist(7, 6) == GetZobrist(8, 6) {
		t.Fatalf("different grid sizes share a table")
	}
}

func TestZobristEmptyBoardHashesZero(t *testing.T) {
	b := NewBoard(4, 7, 6)
	if b.Hash() != 0 {
		t.Fatalf("empty board hash = %#x, want 0", b.Hash())
	}
	if ComputeHash(b) != 0 {
		t.Fatalf("recomputed empty board hash = %#x, want 0", ComputeHash(b))
	}
}
