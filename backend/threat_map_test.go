package main

import (
	"math/rand"
	"testing"
)

// threatMapsEqual compares every field of two maps over a w*h grid.
func threatMapsEqual(t *testing.T, a, b *ThreatMap, width, height int) {
	t.Helper()
	for shape := ShapeHorizontal; shape < threatShapeCount; shape++ {
		for _, player := range []Player{PlayerOne, PlayerTwo} {
			for row := 0; row < height; row++ {
				for col := 0; col < width; col++ {
					if got, want := a.Read(row, col, shape, player), b.Read(row, col, shape, player); got != want {
						t.Fatalf("maps diverge at (%d,%d) shape %v player %v: %v vs %v",
							row, col, shape, player, got, want)
					}
				}
			}
		}
	}
}

func TestThreatMapStartsAtOne(t *testing.T) {
	m := NewThreatMap(4, 7, 6)
	for shape := ShapeHorizontal; shape < threatShapeCount; shape++ {
		for _, player := range []Player{PlayerOne, PlayerTwo} {
			for row := 0; row < 6; row++ {
				for col := 0; col < 7; col++ {
					if got := m.Read(row, col, shape, player); got != 1 {
						t.Fatalf("fresh map (%d,%d) shape %v player %v = %v, want 1", row, col, shape, player, got)
					}
				}
			}
		}
	}
}

func TestThreatMapPlayedCellReadsZero(t *testing.T) {
	b := NewBoard(4, 7, 6)
	row := b.Play(3)
	m := NewThreatMap(4, 7, 6)
	m.UpdateWith(row, 3, b)
	for shape := ShapeHorizontal; shape < threatShapeCount; shape++ {
		for _, player := range []Player{PlayerOne, PlayerTwo} {
			if got := m.Read(0, 3, shape, player); got != 0 {
				t.Fatalf("occupied cell shape %v player %v = %v, want 0", shape, player, got)
			}
		}
	}
}

func TestThreatMapHorizontalArmsIncrementWithinReach(t *testing.T) {
	b := NewBoard(4, 7, 6)
	row := b.Play(3)
	m := NewThreatMap(4, 7, 6)
	m.UpdateWith(row, 3, b)

	// Empty bottom-row cells within three steps of the disc sit in a
	// shared window and read 2 for the mover.
	for _, col := range []int{0, 1, 2, 4, 5, 6} {
		if got := m.Read(0, col, ShapeHorizontal, PlayerOne); got != 2 {
			t.Fatalf("(0,%d) horizontal for mover = %v, want 2", col, got)
		}
	}
	// One row up is untouched.
	if got := m.Read(1, 3, ShapeHorizontal, PlayerOne); got != 1 {
		t.Fatalf("(1,3) horizontal for mover = %v, want 1", got)
	}
}

func TestThreatMapHorizontalEnclosureNullifiesOpponentSpan(t *testing.T) {
	b := NewBoard(4, 7, 6)
	row := b.Play(3)
	m := NewThreatMap(4, 7, 6)
	m.UpdateWith(row, 3, b)

	// Both horizontal arms run into the walls, so the enclosed span is
	// the whole bottom row and every opponent window through it is dead.
	for col := 0; col < 7; col++ {
		if got := m.Read(0, col, ShapeHorizontal, PlayerTwo); got != 0 {
			t.Fatalf("(0,%d) horizontal for opponent = %v, want 0", col, got)
		}
	}
}

func TestThreatMapOpposingDiscStopsArm(t *testing.T) {
	b := NewBoard(4, 7, 6)
	b.Play(3) // player 1 at (0,3)
	b.Play(4) // player 2 at (0,4)
	m := ThreatMapForBoard(b)

	// Player 2's right arm from (0,4) is open; the left arm hits the
	// player 1 disc immediately, and (0,2) was already dead for player 2
	// inside player 1's enclosed span.
	if got := m.Read(0, 5, ShapeHorizontal, PlayerTwo); got != 2 {
		t.Fatalf("(0,5) horizontal for player 2 = %v, want 2", got)
	}
	if got := m.Read(0, 2, ShapeHorizontal, PlayerTwo); got != 0 {
		t.Fatalf("(0,2) horizontal for player 2 = %v, want 0", got)
	}
}

func TestThreatMapRisingDiagonalArm(t *testing.T) {
	b := NewBoard(4, 7, 6)
	row := b.Play(3)
	m := NewThreatMap(4, 7, 6)
	m.UpdateWith(row, 3, b)

	// Up-right cells within three steps read 2 for the mover; the cell
	// exactly a window length away is out of reach and stays 1.
	for k := 1; k <= 3; k++ {
		if got := m.Read(k, 3+k, ShapeRising, PlayerOne); got != 2 {
			t.Fatalf("(%d,%d) rising for mover = %v, want 2", k, 3+k, got)
		}
	}
	// Opponent diagonal fields away from the cell are untouched.
	if got := m.Read(1, 4, ShapeRising, PlayerTwo); got != 1 {
		t.Fatalf("(1,4) rising for opponent = %v, want 1", got)
	}
}

func TestThreatMapNoIncrementAtWindowLength(t *testing.T) {
	b := NewBoard(4, 7, 6)
	row := b.Play(2)
	m := NewThreatMap(4, 7, 6)
	m.UpdateWith(row, 2, b)

	// (4,6) is four steps up-right from (0,2): it cannot share a
	// four-window with the disc.
	if got := m.Read(4, 6, ShapeRising, PlayerOne); got != 1 {
		t.Fatalf("(4,6) rising for mover = %v, want 1", got)
	}
}

func TestThreatMapForBoardIsDeterministic(t *testing.T) {
	b := NewBoard(4, 7, 6)
	playSequence(t, &b, 3, 3, 2, 4, 4, 5)
	threatMapsEqual(t, ThreatMapForBoard(b), ThreatMapForBoard(b), 7, 6)
}

func TestThreatMapIncrementalMatchesHistoryReplay(t *testing.T) {
	// A map maintained move by move must equal one built afterward by
	// replaying the same history into a fresh map.
	rng := rand.New(rand.NewSource(11))
	for game := 0; game < 50; game++ {
		live := NewBoard(4, 7, 6)
		maintained := NewThreatMap(4, 7, 6)
		var history []int
		for i := 0; i < 4+rng.Intn(16); i++ {
			moves := live.LegalMoves()
			if len(moves) == 0 {
				break
			}
			col := moves[rng.Intn(len(moves))]
			row := live.Play(col)
			maintained.UpdateWith(row, col, live)
			history = append(history, col)
		}

		replayBoard := NewBoard(4, 7, 6)
		replayed := NewThreatMap(4, 7, 6)
		for _, col := range history {
			row := replayBoard.Play(col)
			replayed.UpdateWith(row, col, replayBoard)
		}
		threatMapsEqual(t, maintained, replayed, 7, 6)
	}
}

func TestThreatMapForBoardReplaysOccupancyNotHistory(t *testing.T) {
	// Seeding walks against the final board, so a later disc caps arms
	// that were open during live play. With p1 at (0,3) and p2 at (0,4),
	// p1's rightward walk during the game nullified p2's whole bottom
	// row before p2 re-incremented (0,5); the seeded map never sees that
	// open arm.
	b := NewBoard(4, 7, 6)
	live := NewThreatMap(4, 7, 6)
	live.UpdateWith(b.Play(3), 3, b)
	live.UpdateWith(b.Play(4), 4, b)

	seeded := ThreatMapForBoard(b)
	if got := live.Read(0, 5, ShapeHorizontal, PlayerTwo); got != 1 {
		t.Fatalf("live map (0,5) horizontal for player 2 = %v, want 1", got)
	}
	if got := seeded.Read(0, 5, ShapeHorizontal, PlayerTwo); got != 2 {
		t.Fatalf("seeded map (0,5) horizontal for player 2 = %v, want 2", got)
	}
}

func TestThreatMapCloneIsIndependent(t *testing.T) {
	b := NewBoard(4, 7, 6)
	row := b.Play(3)
	m := NewThreatMap(4, 7, 6)
	clone := m.Clone()
	m.UpdateWith(row, 3, b)
	if got := clone.Read(0, 3, ShapeHorizontal, PlayerOne); got != 1 {
		t.Fatalf("clone mutated through original: (0,3) = %v, want 1", got)
	}
}
