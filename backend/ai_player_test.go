package main

import (
	"testing"
	"time"
)

func TestResolveStrategyAutoFollowsHeightParity(t *testing.T) {
	if got := resolveStrategy(StrategyAuto, 6); got != StrategyAlphaBeta {
		t.Fatalf("auto on even height = %q, want alphabeta", got)
	}
	if got := resolveStrategy(StrategyAuto, 5); got != StrategyBFS {
		t.Fatalf("auto on odd height = %q, want bfs", got)
	}
	if got := resolveStrategy(StrategyBFS, 6); got != StrategyBFS {
		t.Fatalf("explicit bfs overridden to %q", got)
	}
	if got := resolveStrategy(StrategyAlphaBeta, 5); got != StrategyAlphaBeta {
		t.Fatalf("explicit alphabeta overridden to %q", got)
	}
}

func TestResolveAIOptionsOverridesConfig(t *testing.T) {
	cfg := DefaultConfig()
	enabled := false
	resolved := resolveAIOptions(cfg, AIOptions{
		Strategy:  StrategyBFS,
		Depth:     4,
		TtEnabled: &enabled,
	})
	if resolved.AiStrategy != StrategyBFS {
		t.Fatalf("strategy = %q, want bfs", resolved.AiStrategy)
	}
	if resolved.AiDepth != 4 {
		t.Fatalf("depth = %d, want 4", resolved.AiDepth)
	}
	if resolved.AiTtEnabled {
		t.Fatalf("tt override ignored")
	}
	if resolved.AiMaxDepth != cfg.AiMaxDepth {
		t.Fatalf("untouched field changed")
	}
}

func TestResolveAIOptionsZeroValuesKeepConfig(t *testing.T) {
	cfg := DefaultConfig()
	resolved := resolveAIOptions(cfg, AIOptions{})
	if resolved != cfg {
		t.Fatalf("empty overrides changed the config: %+v vs %+v", resolved, cfg)
	}
}

func TestRecordCalcDeepensWhileFast(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AiAdaptiveDepth = true
	cfg.AiMaxDepth = 12

	a := NewAIPlayer(PlayerOne, AIOptions{})

	a.recordCalc(6, 100*time.Millisecond, cfg)
	if a.depth != 8 {
		t.Fatalf("depth after a fast calc = %d, want 8", a.depth)
	}
	a.recordCalc(8, 500*time.Millisecond, cfg)
	if a.depth != 9 {
		t.Fatalf("depth after a moderate calc = %d, want 9", a.depth)
	}
	a.recordCalc(9, 2*time.Second, cfg)
	if a.depth != 9 {
		t.Fatalf("depth after a slow calc = %d, want unchanged 9", a.depth)
	}
	a.recordCalc(11, 50*time.Millisecond, cfg)
	if a.depth != 12 {
		t.Fatalf("depth = %d, want capped at 12", a.depth)
	}
	if a.LastDepth() != 11 {
		t.Fatalf("last depth = %d, want 11", a.LastDepth())
	}
}

func TestRecordCalcRespectsAdaptiveToggle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AiAdaptiveDepth = false

	a := NewAIPlayer(PlayerOne, AIOptions{})
	a.recordCalc(6, 10*time.Millisecond, cfg)
	if a.depth != 0 {
		t.Fatalf("depth = %d with adaptive depth off, want untouched", a.depth)
	}
	if a.LastDepth() != 6 {
		t.Fatalf("last depth = %d, want 6", a.LastDepth())
	}
}

func TestAIPlayerChoosesWinningMove(t *testing.T) {
	state := DefaultGameState(DefaultGameSettings())
	state.Board = threeInARow(t)
	state.Status = StatusRunning

	a := NewAIPlayer(PlayerOne, AIOptions{Strategy: StrategyAlphaBeta, Depth: 2})
	move := a.ChooseMove(state)
	if move.Column != 3 {
		t.Fatalf("chose column %d, want the winning column 3", move.Column)
	}
}

func TestAIPlayerWorkerDeliversMove(t *testing.T) {
	state := DefaultGameState(DefaultGameSettings())
	state.Board = threeInARow(t)
	state.Status = StatusRunning

	a := NewAIPlayer(PlayerOne, AIOptions{Strategy: StrategyBFS, Depth: 2})
	a.StartThinking(state)

	deadline := time.Now().Add(5 * time.Second)
	for !a.HasMoveReady() {
		if time.Now().After(deadline) {
			t.Fatalf("worker never finished")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if a.IsThinking() {
		t.Fatalf("still thinking with a move ready")
	}
	move := a.TakeMove()
	if move.Column != 3 {
		t.Fatalf("worker chose column %d, want 3", move.Column)
	}
	if a.HasMoveReady() {
		t.Fatalf("move still flagged ready after being taken")
	}
}
