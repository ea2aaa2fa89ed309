package main

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// branch is the breadth-first scorer for one first move. It owns its
// queue and boards outright; nothing here is shared across goroutines.
type branch struct {
	root  Board
	queue []branchItem
	score float64
}

type branchItem struct {
	relevance float64
	board     Board
}

func newBranch(root Board, capacity int) *branch {
	return &branch{root: root, queue: make([]branchItem, 0, capacity)}
}

// run walks the move tree breadth-first for depth plies below the
// branch root, accumulating a relevance-weighted score. A child's
// relevance is its parent's divided by the parent's branching factor,
// the probability of reaching it under uniform random play. A found win
// adds the child's relevance to the score; a loss subtracts the full
// parent relevance, so one loss outweighs a whole branching factor's
// worth of wins. Once the first node at the depth frontier appears,
// enqueuing stops for good; frontier nodes are still win-checked but
// never expanded.
func (br *branch) run(protagonist Player, depth int) {
	keepPushing := true
	frontierTurn := br.root.Turn() + depth

	br.queue = append(br.queue, branchItem{relevance: 1, board: br.root})
	for len(br.queue) > 0 {
		item := br.queue[0]
		br.queue = br.queue[1:]

		branching := float64(len(item.board.LegalMoves()))
		for _, col := range item.board.LegalMoves() {
			child := item.board.Clone()
			row := child.Play(col)
			switch child.WinFast(row, col) {
			case PlayerNone:
				if keepPushing {
					if child.Turn() == frontierTurn {
						keepPushing = false
						continue
					}
					br.queue = append(br.queue, branchItem{relevance: item.relevance / branching, board: child})
				}
			case protagonist:
				br.score += item.relevance / branching
			default:
				br.score -= item.relevance
			}
		}
	}
}

// AnalyzeBFS scores every legal first move with an independent
// breadth-first branch, one goroutine per move, and returns the column
// with the highest score. It must be the protagonist's turn, and depth
// must be at least 2: a single ply leaves the frontier unreachable.
// Queue growth is combinatorial in depth; choosing a sane depth is the
// caller's responsibility.
func AnalyzeBFS(b Board, protagonist Player, depth int) (int, error) {
	if depth < 2 {
		return 0, fmt.Errorf("bfs analysis: depth %d, need at least 2", depth)
	}
	if b.PlayerToMove() != protagonist {
		return 0, fmt.Errorf("bfs analysis: it is not %v's turn", protagonist)
	}
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return 0, fmt.Errorf("bfs analysis: no legal moves")
	}

	rootRelevance := 1 / float64(len(moves))
	capacity := queueCapacity(len(moves), depth-1)

	scores := make([]float64, len(moves))
	var g errgroup.Group
	for i, col := range moves {
		i, col := i, col
		g.Go(func() error {
			child := b.Clone()
			row := child.Play(col)
			switch child.WinFast(row, col) {
			case PlayerNone:
				br := newBranch(child, capacity)
				br.run(protagonist, depth-1)
				scores[i] = rootRelevance * br.score
				return nil
			case protagonist:
				scores[i] = rootRelevance
				return nil
			default:
				return fmt.Errorf("bfs analysis: opponent completed a line on %v's move in column %d", protagonist, col)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	bestCol := moves[0]
	bestScore := math.Inf(-1)
	for i, col := range moves {
		if scores[i] > bestScore {
			bestCol = col
			bestScore = scores[i]
		}
	}

	log.Debug().
		Int("depth", depth).
		Int("column", bestCol).
		Float64("score", bestScore).
		Int("branches", len(moves)).
		Msg("bfs analysis done")

	return bestCol, nil
}

// queueCapacity estimates branching^depth for the initial queue
// allocation, capped so absurd depths do not preallocate gigabytes.
func queueCapacity(branching, depth int) int {
	const maxCapacity = 1 << 20
	capacity := 1
	for i := 0; i < depth; i++ {
		capacity *= branching
		if capacity > maxCapacity {
			return maxCapacity
		}
	}
	return capacity
}
