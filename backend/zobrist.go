package main

import "sync"

// ZobristTable holds one random 64-bit key per (cell, player) pair for a
// given grid size. Occupancy alone identifies a position: in a gravity
// game the number of discs fixes whose move it is, so no side key is
// mixed in.
type ZobristTable struct {
	width int
	cells []uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[[2]int]*ZobristTable
}

var zobristTables = &zobristStore{tables: make(map[[2]int]*ZobristTable)}

func GetZobrist(width, height int) *ZobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	key := [2]int{width, height}
	if table, ok := zobristTables.tables[key]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(width)<<32 ^ uint64(height)}
	table := &ZobristTable{width: width, cells: make([]uint64, width*height*2)}
	for i := range table.cells {
		table.cells[i] = rng.next()
	}
	zobristTables.tables[key] = table
	return table
}

func (z *ZobristTable) disc(row, col int, player Player) uint64 {
	idx := (row*z.width + col) * 2
	if player == PlayerTwo {
		idx++
	}
	return z.cells[idx]
}

// ComputeHash rebuilds the hash from scratch. Board.Play maintains it
// incrementally; this is the reference for tests and for boards built
// cell by cell.
func ComputeHash(b Board) uint64 {
	z := GetZobrist(b.Width(), b.Height())
	var hash uint64
	for row := 0; row < b.Height(); row++ {
		for col := 0; col < b.Width(); col++ {
			if player := b.playerAt(row, col); player != PlayerNone {
				hash ^= z.disc(row, col, player)
			}
		}
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
