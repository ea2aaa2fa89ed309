package main

import (
	"fmt"
	"strings"
)

type Player uint8

const (
	PlayerNone Player = 0
	PlayerOne  Player = 1
	PlayerTwo  Player = 2
)

type Cell uint8

const (
	CellEmpty     Cell = 0
	CellPlayerOne Cell = 1
	CellPlayerTwo Cell = 2
	// Highlighted variants relabel a winning run at game end. They never
	// appear during search.
	CellPlayerOneWin Cell = 10
	CellPlayerTwoWin Cell = 20
)

// Board is a gravity grid: row 0 is the bottom row, column 0 the leftmost
// column, and a column's discs always form a contiguous run from row 0 up.
// The turn counter equals the number of placed discs.
type Board struct {
	width     int
	height    int
	winLength int
	cells     []Cell
	turn      int
	hash      uint64
	zob       *ZobristTable
}

func NewBoard(winLength, width, height int) Board {
	return Board{
		width:     width,
		height:    height,
		winLength: winLength,
		cells:     make([]Cell, width*height),
		zob:       GetZobrist(width, height),
	}
}

func (b Board) Width() int     { return b.width }
func (b Board) Height() int    { return b.height }
func (b Board) WinLength() int { return b.winLength }
func (b Board) Turn() int      { return b.turn }

// Hash is the zobrist hash of the occupancy, maintained incrementally by
// Play. Equal occupancy always yields an equal hash.
func (b Board) Hash() uint64 { return b.hash }

func (b Board) PlayerToMove() Player {
	return Player(b.turn%2 + 1)
}

func (b Board) At(row, col int) Cell {
	return b.cells[row*b.width+col]
}

func (b *Board) set(row, col int, value Cell) {
	if row >= 0 && row < b.height && col >= 0 && col < b.width {
		b.cells[row*b.width+col] = value
	}
}

func (b Board) playerAt(row, col int) Player {
	switch b.At(row, col) {
	case CellPlayerOne, CellPlayerOneWin:
		return PlayerOne
	case CellPlayerTwo, CellPlayerTwoWin:
		return PlayerTwo
	default:
		return PlayerNone
	}
}

func (b Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.height && col >= 0 && col < b.width
}

// LegalMoves returns the columns whose top cell is empty, in ascending
// order.
func (b Board) LegalMoves() []int {
	legal := make([]int, 0, b.width)
	for col := 0; col < b.width; col++ {
		if b.At(b.height-1, col) == CellEmpty {
			legal = append(legal, col)
		}
	}
	return legal
}

// Play drops a disc for the player to move into the given column and
// returns the row it landed in. A full column returns the height sentinel
// and leaves the board untouched.
func (b *Board) Play(col int) int {
	for row := 0; row < b.height; row++ {
		if b.At(row, col) == CellEmpty {
			player := b.PlayerToMove()
			b.cells[row*b.width+col] = Cell(player)
			b.hash ^= b.zob.disc(row, col, player)
			b.turn++
			return row
		}
	}
	return b.height
}

// WinFast checks only the four lines through (row, col) for a winLength
// run of the disc at that cell. After a move this is sufficient: only the
// newly placed disc can have completed a run.
func (b Board) WinFast(row, col int) Player {
	player := b.playerAt(row, col)
	if player == PlayerNone {
		return PlayerNone
	}

	// Vertical: discs stack upward, so only the run below matters.
	if row >= b.winLength-1 {
		run := 1
		for i := 1; i < b.winLength; i++ {
			if b.playerAt(row-i, col) != player {
				break
			}
			run++
		}
		if run >= b.winLength {
			return player
		}
	}

	if b.lineRun(row, col, 0, 1, player) >= b.winLength {
		return player
	}
	if b.lineRun(row, col, 1, 1, player) >= b.winLength {
		return player
	}
	if b.lineRun(row, col, 1, -1, player) >= b.winLength {
		return player
	}
	return PlayerNone
}

// lineRun counts the contiguous run of player's discs through (row, col)
// along direction (dRow, dCol), including the cell itself.
func (b Board) lineRun(row, col, dRow, dCol int, player Player) int {
	run := 1
	for r, c := row+dRow, col+dCol; b.InBounds(r, c) && b.playerAt(r, c) == player; r, c = r+dRow, c+dCol {
		run++
	}
	for r, c := row-dRow, col-dCol; b.InBounds(r, c) && b.playerAt(r, c) == player; r, c = r-dRow, c-dCol {
		run++
	}
	return run
}

// WinHighlight scans the whole board, relabels a winning run to the
// highlighted cell variants and returns the winner. Slower than WinFast;
// used at display time, never inside the search.
func (b *Board) WinHighlight() Player {
	for row := 0; row < b.height; row++ {
		if win := b.highlightLine(row, 0, 0, 1); win != PlayerNone {
			return win
		}
	}
	for col := 0; col < b.width; col++ {
		if win := b.highlightLine(0, col, 1, 0); win != PlayerNone {
			return win
		}
	}
	// Rising diagonals start on the bottom row and the left column,
	// falling ones on the bottom row and the right column.
	for col := 0; col < b.width; col++ {
		if win := b.highlightLine(0, col, 1, 1); win != PlayerNone {
			return win
		}
		if win := b.highlightLine(0, col, 1, -1); win != PlayerNone {
			return win
		}
	}
	for row := 1; row < b.height; row++ {
		if win := b.highlightLine(row, 0, 1, 1); win != PlayerNone {
			return win
		}
		if win := b.highlightLine(row, b.width-1, 1, -1); win != PlayerNone {
			return win
		}
	}
	return PlayerNone
}

type cellRef struct{ row, col int }

// highlightLine walks from (row, col) with step (dRow, dCol) until it
// leaves the board, tracking the current run of each player. When a run
// reaches winLength those cells are relabeled to the highlighted variant.
func (b *Board) highlightLine(row, col, dRow, dCol int) Player {
	run := make([]cellRef, 0, b.winLength)
	last := PlayerNone
	for b.InBounds(row, col) {
		player := b.playerAt(row, col)
		if player != last {
			run = run[:0]
			last = player
		}
		if player != PlayerNone {
			run = append(run, cellRef{row, col})
			if len(run) >= b.winLength {
				for _, ref := range run {
					b.set(ref.row, ref.col, 10*b.At(ref.row, ref.col))
				}
				return player
			}
		}
		row += dRow
		col += dCol
	}
	return PlayerNone
}

func (b Board) Clone() Board {
	clone := b
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

// String renders the board top row first. Highlighted discs are drawn
// without brackets so a finished game shows its winning run.
func (b Board) String() string {
	var sb strings.Builder
	for col := 0; col < b.width; col++ {
		fmt.Fprintf(&sb, " %d ", col)
	}
	switch b.PlayerToMove() {
	case PlayerOne:
		sb.WriteString("  (o)")
	case PlayerTwo:
		sb.WriteString("  (x)")
	}
	for row := b.height - 1; row >= 0; row-- {
		sb.WriteByte('\n')
		for col := 0; col < b.width; col++ {
			switch b.At(row, col) {
			case CellPlayerOne:
				sb.WriteString("[o]")
			case CellPlayerTwo:
				sb.WriteString("[x]")
			case CellPlayerOneWin:
				sb.WriteString(" o ")
			case CellPlayerTwoWin:
				sb.WriteString(" x ")
			default:
				sb.WriteString("[ ]")
			}
		}
	}
	return sb.String()
}

func otherPlayer(player Player) Player {
	return 3 - player
}

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "player 1"
	case PlayerTwo:
		return "player 2"
	default:
		return "none"
	}
}
