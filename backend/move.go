package main

// Move is a played column plus the row the disc landed in. Row is
// filled in by the game when the move is applied.
type Move struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

func NewMove(column int) Move {
	return Move{Column: column, Row: -1}
}

func (m Move) IsValid(boardWidth int) bool {
	return m.Column >= 0 && m.Column < boardWidth
}

func (m Move) Equals(other Move) bool {
	return m.Column == other.Column && m.Row == other.Row
}
