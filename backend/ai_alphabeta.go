package main

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

type SearchStats struct {
	Nodes    int `json:"nodes"`
	TTProbes int `json:"ttProbes"`
	TTHits   int `json:"ttHits"`
	Cutoffs  int `json:"cutoffs"`
}

type searchContext struct {
	protagonist Player
	tt          *TranspositionTable
	stats       SearchStats
}

// searchNode pairs a board with its threat map. Children clone both and
// apply one move, keeping the map in sync incrementally.
type searchNode struct {
	board   Board
	threats *ThreatMap
}

func newSearchNode(b Board) searchNode {
	return searchNode{board: b.Clone(), threats: ThreatMapForBoard(b)}
}

func (n searchNode) child(col int) (searchNode, int) {
	c := searchNode{board: n.board.Clone(), threats: n.threats.Clone()}
	row := c.board.Play(col)
	c.threats.UpdateWith(row, col, c.board)
	return c, row
}

func (n searchNode) heuristic(protagonist Player) float64 {
	return EvaluatePosition(n.threats, protagonist)
}

// alphaBeta computes the minimax value of a node. (row, col) is where
// the last disc landed; depth is the remaining plies below this node.
func (ctx *searchContext) alphaBeta(node searchNode, row, col, depth int, alpha, beta float64) float64 {
	ctx.stats.Nodes++

	key := node.board.Hash()
	alphaOrig, betaOrig := alpha, beta
	if ctx.tt != nil {
		ctx.stats.TTProbes++
		if entry, ok := ctx.tt.Probe(key); ok {
			ctx.stats.TTHits++
			switch entry.Flag {
			case TTExact:
				return entry.Value
			case TTLower:
				alpha = math.Max(alpha, entry.Value)
			case TTUpper:
				beta = math.Min(beta, entry.Value)
			}
			if alpha >= beta {
				return entry.Value
			}
		}
	}

	var value float64
	switch winner := node.board.WinFast(row, col); {
	case winner == ctx.protagonist:
		value = winValue
	case winner != PlayerNone:
		value = -winValue
	case depth == 0:
		value = node.heuristic(ctx.protagonist)
	default:
		moves := node.board.LegalMoves()
		switch {
		case len(moves) == 0:
			value = 0 // draw
		case node.board.PlayerToMove() == ctx.protagonist:
			value = math.Inf(-1)
			for _, childCol := range moves {
				child, childRow := node.child(childCol)
				childValue := ctx.alphaBeta(child, childRow, childCol, depth-1, alpha, beta)
				value = math.Max(value, childValue)
				alpha = math.Max(alpha, value)
				if beta <= alpha {
					ctx.stats.Cutoffs++
					break
				}
			}
		default:
			value = math.Inf(1)
			for _, childCol := range moves {
				child, childRow := node.child(childCol)
				childValue := ctx.alphaBeta(child, childRow, childCol, depth-1, alpha, beta)
				value = math.Min(value, childValue)
				beta = math.Min(beta, value)
				if beta <= alpha {
					ctx.stats.Cutoffs++
					break
				}
			}
		}
	}

	// Classify against the window this node was entered with, before any
	// probe tightening: a value at or outside that window is only a
	// bound, not the node's true score.
	flag := TTExact
	switch {
	case value <= alphaOrig:
		flag = TTUpper
	case value >= betaOrig:
		flag = TTLower
	}
	ctx.tt.Store(key, value, flag)
	return value
}

// AnalyzeAlphaBeta picks the column with the best minimax value for the
// protagonist at the given depth. Value ties go to the child whose
// immediate heuristic is strictly higher, so the choice does not depend
// on incidental move ordering. The board must be mid-game, its height
// even, and depth at least 1.
func AnalyzeAlphaBeta(b Board, protagonist Player, depth int) (int, float64, error) {
	return analyzeAlphaBeta(b, protagonist, depth, NewTranspositionTable())
}

func analyzeAlphaBeta(b Board, protagonist Player, depth int, tt *TranspositionTable) (int, float64, error) {
	if depth < 1 {
		return 0, 0, fmt.Errorf("alpha-beta analysis: depth %d, need at least 1", depth)
	}
	if b.Height()%2 != 0 {
		return 0, 0, fmt.Errorf("alpha-beta analysis: board height %d is odd, the parity heuristic needs an even height", b.Height())
	}
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return 0, 0, fmt.Errorf("alpha-beta analysis: no legal moves")
	}

	ctx := &searchContext{protagonist: protagonist, tt: tt}
	root := newSearchNode(b)

	bestCol := b.Width()
	bestValue := math.Inf(-1)
	bestImmediate := math.Inf(-1)
	for _, col := range moves {
		child, row := root.child(col)
		childValue := ctx.alphaBeta(child, row, col, depth-1, math.Inf(-1), math.Inf(1))
		childImmediate := child.heuristic(protagonist)
		if childValue < bestValue {
			continue
		}
		if childValue == bestValue && childImmediate <= bestImmediate {
			continue
		}
		bestCol = col
		bestValue = childValue
		bestImmediate = childImmediate
	}

	log.Debug().
		Int("depth", depth).
		Int("column", bestCol).
		Float64("value", bestValue).
		Int("nodes", ctx.stats.Nodes).
		Int("ttHits", ctx.stats.TTHits).
		Int("ttSize", tt.Count()).
		Int("cutoffs", ctx.stats.Cutoffs).
		Msg("alpha-beta analysis done")

	return bestCol, bestValue, nil
}
