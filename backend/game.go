package main

import (
	"time"

	"github.com/rs/zerolog/log"
)

type Game struct {
	settings  GameSettings
	state     GameState
	history   MoveHistory
	playerOne IPlayer
	playerTwo IPlayer
	turnStart time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.settings = settings
	g.state.Reset(settings)
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move Move) (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	if !move.IsValid(g.state.Board.Width()) {
		g.state.LastMessage = "Illegal move: column out of range"
		return false, g.state.LastMessage
	}
	player := g.state.ToMove()
	mover := g.currentPlayer()
	isAiMove := mover != nil && !mover.IsHuman()

	row := g.state.Board.Play(move.Column)
	if row == g.state.Board.Height() {
		g.state.LastMessage = "Illegal move: column is full"
		return false, g.state.LastMessage
	}
	move.Row = row

	g.state.LastMessage = ""
	g.state.LastMove = move
	g.state.HasLastMove = true
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	entry := HistoryEntry{Move: move, Player: player, ElapsedMs: elapsedMs, IsAi: isAiMove}
	if ai, ok := mover.(*AIPlayer); ok {
		entry.Depth = ai.LastDepth()
	}
	g.history.Push(entry)
	g.logMovePlayed(move, player, elapsedMs, isAiMove)

	if winner := g.state.Board.WinFast(row, move.Column); winner != PlayerNone {
		// Relabel the winning run for rendering.
		g.state.Board.WinHighlight()
		g.state.Status = statusForWinner(winner)
		log.Info().Stringer("winner", winner).Int("turns", g.state.Board.Turn()).Msg("game over")
		return true, ""
	}
	if len(g.state.Board.LegalMoves()) == 0 {
		g.state.Status = StatusDraw
		log.Info().Int("turns", g.state.Board.Turn()).Msg("game drawn")
		return true, ""
	}

	g.turnStart = time.Now()
	return true, ""
}

// Tick advances the game by at most one move: it applies a pending
// human move or a finished AI calculation, and kicks off AI thinking
// when the side to move is idle. Returns whether a move was applied.
func (g *Game) Tick() bool {
	if g.state.Status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if human, ok := player.(*HumanPlayer); ok {
		if human.HasPendingMove() {
			move := human.TakePendingMove()
			applied, _ := g.TryApplyMove(move)
			return applied
		}
		return false
	}
	if ai, ok := player.(*AIPlayer); ok {
		if ai.HasMoveReady() {
			move := ai.TakeMove()
			applied, _ := g.TryApplyMove(move)
			return applied
		}
		if !ai.IsThinking() {
			ai.StartThinking(g.state.Clone())
		}
		return false
	}
	move := player.ChooseMove(g.state.Clone())
	applied, _ := g.TryApplyMove(move)
	return applied
}

func (g *Game) SubmitHumanMove(move Move) bool {
	player := g.currentPlayer()
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	if ai, ok := g.currentPlayer().(*AIPlayer); ok {
		return ai.IsThinking()
	}
	return false
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerFor(g.state.ToMove())
}

func (g *Game) playerFor(player Player) IPlayer {
	if player == PlayerOne {
		return g.playerOne
	}
	return g.playerTwo
}

func (g *Game) createPlayers() {
	if g.settings.PlayerOneType == PlayerHuman {
		g.playerOne = NewHumanPlayer()
	} else {
		g.playerOne = NewAIPlayer(PlayerOne, g.settings.PlayerOneAI)
	}
	if g.settings.PlayerTwoType == PlayerHuman {
		g.playerTwo = NewHumanPlayer()
	} else {
		g.playerTwo = NewAIPlayer(PlayerTwo, g.settings.PlayerTwoAI)
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Info().
		Str("playerOne", label(g.settings.PlayerOneType)).
		Str("playerTwo", label(g.settings.PlayerTwoType)).
		Int("width", g.settings.BoardWidth).
		Int("height", g.settings.BoardHeight).
		Int("winLength", g.settings.WinLength).
		Msg("new game")
}

func (g *Game) logMovePlayed(move Move, player Player, elapsedMs float64, isAiMove bool) {
	log.Debug().
		Stringer("player", player).
		Int("column", move.Column).
		Int("row", move.Row).
		Float64("elapsedMs", elapsedMs).
		Bool("ai", isAiMove).
		Msg("move played")
}
