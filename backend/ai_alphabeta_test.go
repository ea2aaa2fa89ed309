package main

import (
	"math/rand"
	"testing"
)

// threeInARow sets up a board where player 1 owns columns 0..2 on the
// bottom row and player 2 owns the row above; player 1 is to move and
// wins in column 3.
func threeInARow(t *testing.T) Board {
	t.Helper()
	b := NewBoard(4, 7, 6)
	playSequence(t, &b, 0, 0, 1, 1, 2, 2)
	return b
}

func TestAlphaBetaFindsWinInOne(t *testing.T) {
	b := threeInARow(t)
	col, value, err := AnalyzeAlphaBeta(b, PlayerOne, 1)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if col != 3 {
		t.Fatalf("chose column %d, want the winning column 3", col)
	}
	if value != winValue {
		t.Fatalf("value = %v, want %v", value, winValue)
	}
}

func TestAlphaBetaBlocksWinInOne(t *testing.T) {
	// Same position from the defender's side: player 2 must not let
	// deeper search talk it out of dealing with the open three. At depth
	// 2 every non-blocking reply runs into the win in column 3.
	b := threeInARow(t)
	b.Play(6) // player 1 wastes a move; player 2 to move
	col, value, err := AnalyzeAlphaBeta(b, PlayerTwo, 2)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if col != 3 {
		t.Fatalf("chose column %d, want the blocking column 3", col)
	}
	if value <= -winValue {
		t.Fatalf("value = %v after blocking, want better than a loss", value)
	}
}

func TestAlphaBetaRejectsBadDepth(t *testing.T) {
	b := NewBoard(4, 7, 6)
	if _, _, err := AnalyzeAlphaBeta(b, PlayerOne, 0); err == nil {
		t.Fatalf("depth 0 accepted")
	}
}

func TestAlphaBetaRejectsOddHeight(t *testing.T) {
	b := NewBoard(4, 7, 5)
	if _, _, err := AnalyzeAlphaBeta(b, PlayerOne, 4); err == nil {
		t.Fatalf("odd board height accepted")
	}
}

func TestAlphaBetaRejectsFullBoard(t *testing.T) {
	b := NewBoard(3, 2, 2)
	playSequence(t, &b, 0, 1, 0, 1)
	if _, _, err := AnalyzeAlphaBeta(b, PlayerOne, 2); err == nil {
		t.Fatalf("full board accepted")
	}
}

func TestAlphaBetaReturnsLegalColumn(t *testing.T) {
	b := NewBoard(4, 7, 6)
	col, _, err := AnalyzeAlphaBeta(b, PlayerOne, 3)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if col < 0 || col >= b.Width() {
		t.Fatalf("column %d out of range", col)
	}
}

func TestAlphaBetaCacheDoesNotChangeResult(t *testing.T) {
	// The second sequence once exposed a bad bound classification: a
	// value computed under a tightened window was cached as exact and
	// leaked into a sibling root subtree, flipping the chosen column.
	sequences := [][]int{
		{3, 3, 2, 4, 4, 2},
		{2, 6, 3, 2, 6, 5},
	}
	for _, cols := range sequences {
		b := NewBoard(4, 7, 6)
		playSequence(t, &b, cols...)
		for _, depth := range []int{4, 5, 6} {
			cachedCol, cachedValue, err := analyzeAlphaBeta(b, PlayerOne, depth, NewTranspositionTable())
			if err != nil {
				t.Fatalf("%v depth %d: cached analysis failed: %v", cols, depth, err)
			}
			plainCol, plainValue, err := analyzeAlphaBeta(b, PlayerOne, depth, nil)
			if err != nil {
				t.Fatalf("%v depth %d: uncached analysis failed: %v", cols, depth, err)
			}
			if cachedCol != plainCol || cachedValue != plainValue {
				t.Fatalf("%v depth %d: cache changed the result: (%d, %v) vs (%d, %v)",
					cols, depth, cachedCol, cachedValue, plainCol, plainValue)
			}
		}
	}
}

func TestAlphaBetaCacheInvarianceOnRandomPositions(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	analyzed := 0
	for analyzed < 25 {
		b := NewBoard(4, 7, 6)
		terminal := false
		for plies := 4 + rng.Intn(8); b.Turn() < plies; {
			moves := b.LegalMoves()
			col := moves[rng.Intn(len(moves))]
			row := b.Play(col)
			if b.WinFast(row, col) != PlayerNone {
				terminal = true
				break
			}
		}
		if terminal {
			continue
		}
		protagonist := b.PlayerToMove()
		cachedCol, cachedValue, err := analyzeAlphaBeta(b, protagonist, 4, NewTranspositionTable())
		if err != nil {
			t.Fatalf("position %d: cached analysis failed: %v\n%s", analyzed, err, b.String())
		}
		plainCol, plainValue, err := analyzeAlphaBeta(b, protagonist, 4, nil)
		if err != nil {
			t.Fatalf("position %d: uncached analysis failed: %v\n%s", analyzed, err, b.String())
		}
		if cachedCol != plainCol || cachedValue != plainValue {
			t.Fatalf("position %d: cache changed the result: (%d, %v) vs (%d, %v)\n%s",
				analyzed, cachedCol, cachedValue, plainCol, plainValue, b.String())
		}
		analyzed++
	}
}

func TestAlphaBetaStatsCountNodes(t *testing.T) {
	b := NewBoard(4, 7, 6)
	ctx := &searchContext{protagonist: PlayerOne, tt: NewTranspositionTable()}
	root := newSearchNode(b)
	child, row := root.child(3)
	ctx.alphaBeta(child, row, 3, 2, -winValue, winValue)
	if ctx.stats.Nodes == 0 {
		t.Fatalf("no nodes counted")
	}
	if ctx.stats.TTProbes == 0 {
		t.Fatalf("no probes counted with a live table")
	}
}
