package main

const winValue = 3e6

// EvaluatePosition scores a threat map for the protagonist using row
// parity. On an even-height board with perfect column play, player 1
// ends up filling even rows and player 2 odd rows, so a threat only
// matters to the player whose parity matches its row. Each row sums the
// squared threat values of its correct-parity player over all three
// shapes; squaring rewards concentrated threats over spread ones. Rows
// are weighted by 1/(1+i) so threats reachable sooner dominate, and the
// row's sign follows whether its parity player is the protagonist.
//
// Defined only for even-height boards; callers validate the height
// before searching.
func EvaluatePosition(m *ThreatMap, protagonist Player) float64 {
	score := 0.0
	for row := 0; row < m.height; row++ {
		parityPlayer := Player(row%2 + 1)
		sign := -1.0
		if parityPlayer == protagonist {
			sign = 1.0
		}
		rowScore := 0.0
		for col := 0; col < m.width; col++ {
			for shape := ShapeHorizontal; shape < threatShapeCount; shape++ {
				v := m.Read(row, col, shape, parityPlayer)
				rowScore += v * v
			}
		}
		score += sign * rowScore / (1.0 + float64(row))
	}
	return score
}
