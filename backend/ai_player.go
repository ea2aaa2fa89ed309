package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

type AIPlayer struct {
	seat       Player
	options    AIOptions
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	readyMove  Move
	depthMutex sync.Mutex
	depth      int
	lastDepth  int
}

func NewAIPlayer(seat Player, options AIOptions) *AIPlayer {
	return &AIPlayer{seat: seat, options: options}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) ChooseMove(state GameState) Move {
	return a.analyze(state)
}

// StartThinking runs the analysis on a worker goroutine; the game loop
// polls HasMoveReady and collects the result with TakeMove.
func (a *AIPlayer) StartThinking(state GameState) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)

	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		move := a.analyze(state)
		a.moveMutex.Lock()
		a.readyMove = move
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() Move {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove
}

// LastDepth reports the depth of the most recent completed analysis.
func (a *AIPlayer) LastDepth() int {
	a.depthMutex.Lock()
	defer a.depthMutex.Unlock()
	return a.lastDepth
}

func (a *AIPlayer) analyze(state GameState) Move {
	cfg := resolveAIOptions(GetConfig(), a.options)
	depth := a.currentDepth(cfg)
	strategy := resolveStrategy(cfg.AiStrategy, state.Board.Height())

	start := time.Now()
	var col int
	var err error
	switch strategy {
	case StrategyAlphaBeta:
		var tt *TranspositionTable
		if cfg.AiTtEnabled {
			tt = NewTranspositionTable()
		}
		var value float64
		col, value, err = analyzeAlphaBeta(state.Board, a.seat, depth, tt)
		if err == nil && cfg.AiLogSearch {
			log.Info().
				Stringer("seat", a.seat).
				Int("depth", depth).
				Int("column", col).
				Float64("value", value).
				Dur("elapsed", time.Since(start)).
				Msg("alpha-beta move chosen")
		}
	default:
		col, err = AnalyzeBFS(state.Board, a.seat, depth)
		if err == nil && cfg.AiLogSearch {
			log.Info().
				Stringer("seat", a.seat).
				Int("depth", depth).
				Int("column", col).
				Dur("elapsed", time.Since(start)).
				Msg("bfs move chosen")
		}
	}
	if err != nil {
		log.Error().Err(err).Stringer("seat", a.seat).Msg("analysis failed, falling back to first legal move")
		moves := state.Board.LegalMoves()
		if len(moves) == 0 {
			return Move{Column: -1, Row: -1}
		}
		col = moves[0]
	}

	a.recordCalc(depth, time.Since(start), cfg)
	return NewMove(col)
}

// currentDepth returns the depth to search with, seeding from config on
// first use.
func (a *AIPlayer) currentDepth(cfg Config) int {
	a.depthMutex.Lock()
	defer a.depthMutex.Unlock()
	if a.depth == 0 {
		a.depth = cfg.AiDepth
	}
	return a.depth
}

// recordCalc deepens future searches while calculations stay fast. The
// move tree shrinks as the board fills, so a quick result means there
// is headroom for more plies next time.
func (a *AIPlayer) recordCalc(depth int, elapsed time.Duration, cfg Config) {
	a.depthMutex.Lock()
	defer a.depthMutex.Unlock()
	a.lastDepth = depth
	if !cfg.AiAdaptiveDepth {
		return
	}
	if elapsed < time.Second {
		if elapsed > 300*time.Millisecond {
			a.depth = depth + 1
		} else {
			a.depth = depth + 2
		}
	}
	if cfg.AiMaxDepth > 0 && a.depth > cfg.AiMaxDepth {
		a.depth = cfg.AiMaxDepth
	}
}

// resolveStrategy maps "auto" onto a concrete strategy: alpha-beta
// where its parity heuristic is defined, bfs on odd-height boards.
func resolveStrategy(strategy string, boardHeight int) string {
	switch strategy {
	case StrategyAlphaBeta, StrategyBFS:
		return strategy
	default:
		if boardHeight%2 == 0 {
			return StrategyAlphaBeta
		}
		return StrategyBFS
	}
}
