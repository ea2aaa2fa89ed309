package main

// ThreatShape is a line orientation tracked by the threat map. Vertical
// lines are not tracked: gravity makes them cheap to read off the board
// directly and they carry no parity information.
type ThreatShape uint8

const (
	ShapeHorizontal ThreatShape = iota
	ShapeRising                 // the "/" diagonal
	ShapeFalling                // the "\" diagonal
	threatShapeCount
)

func (s ThreatShape) String() string {
	switch s {
	case ShapeHorizontal:
		return "-"
	case ShapeRising:
		return "/"
	case ShapeFalling:
		return "\\"
	default:
		return "?"
	}
}

// ThreatMap keeps one scalar field per (shape, player) pair over the
// whole grid. A cell's value counts how many of that player's discs
// already sit in a still-open window of the winning length through the
// cell, so the heuristic can read threat pressure in O(1) instead of
// rescanning lines. Every field starts at 1; occupied cells and cells
// whose window has been blocked read 0.
type ThreatMap struct {
	width     int
	height    int
	winLength int
	fields    [threatShapeCount][2][]float64
}

func NewThreatMap(winLength, width, height int) *ThreatMap {
	m := &ThreatMap{width: width, height: height, winLength: winLength}
	for shape := range m.fields {
		for player := range m.fields[shape] {
			field := make([]float64, width*height)
			for i := range field {
				field[i] = 1
			}
			m.fields[shape][player] = field
		}
	}
	return m
}

// ThreatMapForBoard seeds a fresh map from a mid-game board by feeding
// every occupied cell through UpdateWith in row-major order from the
// bottom. The result depends only on the board's occupancy, which is
// not the same map a game builds move by move: every walk here sees the
// final board, so discs placed late cap arms that were still open when
// the earlier moves were played.
func ThreatMapForBoard(b Board) *ThreatMap {
	m := NewThreatMap(b.WinLength(), b.Width(), b.Height())
	for row := 0; row < b.Height(); row++ {
		for col := 0; col < b.Width(); col++ {
			if b.playerAt(row, col) != PlayerNone {
				m.UpdateWith(row, col, b)
			}
		}
	}
	return m
}

func (m *ThreatMap) Read(row, col int, shape ThreatShape, player Player) float64 {
	return m.fields[shape][player-1][row*m.width+col]
}

func (m *ThreatMap) increment(row, col int, shape ThreatShape, player Player) {
	if row >= 0 && row < m.height && col >= 0 && col < m.width {
		m.fields[shape][player-1][row*m.width+col]++
	}
}

func (m *ThreatMap) nullify(row, col int, shape ThreatShape, player Player) {
	if row >= 0 && row < m.height && col >= 0 && col < m.width {
		m.fields[shape][player-1][row*m.width+col] = 0
	}
}

// walkArm walks outward from (row, col) along (dRow, dCol) for up to
// winLength steps, incrementing player's field on each empty cell passed
// before the wall or an opposing disc. No increment happens at exactly
// winLength steps out: that cell cannot share a window with (row, col).
// The return value is the enclosure extent, the distance to the last of
// player's own discs seen before the walk ended; the wall caps it one
// short of the wall distance.
func (m *ThreatMap) walkArm(row, col, dRow, dCol int, shape ThreatShape, player Player, b Board) int {
	extent := 0
	for k := 1; k <= m.winLength; k++ {
		r, c := row+k*dRow, col+k*dCol
		if !b.InBounds(r, c) {
			return k - 1
		}
		switch b.playerAt(r, c) {
		case PlayerNone:
			if k != m.winLength {
				m.increment(r, c, shape, player)
			}
		case player:
			extent = k - 1
		default:
			return extent
		}
	}
	return extent
}

// UpdateWith adjusts the map for a disc just placed at (row, col). The
// board must already contain the disc.
func (m *ThreatMap) UpdateWith(row, col int, b Board) {
	player := b.playerAt(row, col)
	opp := otherPlayer(player)

	// Horizontal: the two arms merge into one enclosed span for the
	// opponent nullify, since a horizontal window blocked anywhere is
	// blocked as a whole.
	m.nullify(row, col, ShapeHorizontal, player)
	extRight := m.walkArm(row, col, 0, 1, ShapeHorizontal, player, b)
	extLeft := m.walkArm(row, col, 0, -1, ShapeHorizontal, player, b)
	for c := col - extLeft; c <= col+extRight; c++ {
		m.nullify(row, c, ShapeHorizontal, opp)
	}

	// Diagonals: the played cell is moot for both players, and each
	// arm's enclosure is nullified independently because a block on one
	// arm does not close the other.
	diagonals := [...]struct {
		shape      ThreatShape
		dRow, dCol int
	}{
		{ShapeRising, 1, 1},
		{ShapeFalling, 1, -1},
	}
	for _, d := range diagonals {
		m.nullify(row, col, d.shape, PlayerOne)
		m.nullify(row, col, d.shape, PlayerTwo)
		for _, dir := range [2]int{1, -1} {
			dRow, dCol := dir*d.dRow, dir*d.dCol
			extent := m.walkArm(row, col, dRow, dCol, d.shape, player, b)
			for k := 1; k <= extent; k++ {
				m.nullify(row+k*dRow, col+k*dCol, d.shape, opp)
			}
		}
	}
}

func (m *ThreatMap) Clone() *ThreatMap {
	clone := &ThreatMap{width: m.width, height: m.height, winLength: m.winLength}
	for shape := range m.fields {
		for player := range m.fields[shape] {
			field := make([]float64, len(m.fields[shape][player]))
			copy(field, m.fields[shape][player])
			clone.fields[shape][player] = field
		}
	}
	return clone
}
