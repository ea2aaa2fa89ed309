package main

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusPlayerOneWon
	StatusPlayerTwoWon
	StatusDraw
)

func (s GameStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusRunning:
		return "running"
	case StatusPlayerOneWon:
		return "player_one_won"
	case StatusPlayerTwoWon:
		return "player_two_won"
	case StatusDraw:
		return "draw"
	default:
		return "unknown"
	}
}

type GameState struct {
	Board       Board
	Status      GameStatus
	HasLastMove bool
	LastMove    Move
	LastMessage string
}

func DefaultGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	s.Board = NewBoard(settings.WinLength, settings.BoardWidth, settings.BoardHeight)
	s.Status = StatusNotStarted
	s.HasLastMove = false
	s.LastMove = Move{Column: -1, Row: -1}
	s.LastMessage = ""
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	return clone
}

func (s GameState) ToMove() Player {
	return s.Board.PlayerToMove()
}

func statusForWinner(winner Player) GameStatus {
	switch winner {
	case PlayerOne:
		return StatusPlayerOneWon
	case PlayerTwo:
		return StatusPlayerTwoWon
	default:
		return StatusRunning
	}
}
