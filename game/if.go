package game

import (
	"encoding/json"
	"fmt"
)

// BoardSize is the width and height of the board.
const BoardSize = 5

// PlayerID names one side of the game, e.g. "A".
type PlayerID string

// CharacterType is the kind of a piece. Only the server knows what it means;
// the client uses it to narrow the directions it offers.
type CharacterType string

const (
	Pawn  CharacterType = "Pawn"
	Hero1 CharacterType = "Hero1"
	Hero2 CharacterType = "Hero2"
)

// Cell is one occupied square. Empty squares are nil.
type Cell struct {
	Name   string        `json:"name"`
	Player PlayerID      `json:"player"`
	Type   CharacterType `json:"type"`
}

// Board is always BoardSize by BoardSize, indexed [row][col].
type Board [BoardSize][BoardSize]*Cell

// UnmarshalJSON refuses anything that is not exactly BoardSize rows of
// BoardSize cells.
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != BoardSize {
		return fmt.Errorf("board has %d rows, want %d", len(rows), BoardSize)
	}
	var out Board
	for r, row := range rows {
		if len(row) != BoardSize {
			return fmt.Errorf("board row %d has %d cells, want %d", r, len(row), BoardSize)
		}
		copy(out[r][:], row)
	}
	*b = out
	return nil
}

type CharacterRef struct {
	Name string        `json:"name"`
	Type CharacterType `json:"type,omitempty"`
}

type PlayerInfo struct {
	Characters []CharacterRef `json:"characters"`
}

// GameState is the server's word on how things are. The client never edits
// one, it only replaces it.
type GameState struct {
	Board         Board                   `json:"board"`
	CurrentPlayer PlayerID                `json:"currentPlayer"`
	Players       map[PlayerID]PlayerInfo `json:"players"`
}

// CellAt returns the cell at row, col, or nil if empty or off the board.
func (s *GameState) CellAt(row, col int) *Cell {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return nil
	}
	return s.Board[row][col]
}

// FindCell finds a piece on the board by name.
func (s *GameState) FindCell(name string) (cell *Cell, row, col int) {
	for r := range s.Board {
		for c, cell := range s.Board[r] {
			if cell != nil && cell.Name == name {
				return cell, r, c
			}
		}
	}
	return nil, -1, -1
}

// Roster is the ordered list of a player's characters.
func (s *GameState) Roster(player PlayerID) []CharacterRef {
	return s.Players[player].Characters
}

// Owns says whether the named piece belongs to the player, going by the board
// first and then by the roster. The type is returned when it is known.
func (s *GameState) Owns(player PlayerID, name string) (CharacterType, bool) {
	if name == "" {
		return "", false
	}
	if cell, _, _ := s.FindCell(name); cell != nil {
		return cell.Type, cell.Player == player
	}
	for _, ch := range s.Roster(player) {
		if ch.Name == name {
			return ch.Type, true
		}
	}
	return "", false
}

// Selection is what the local player has picked to move next.
type Selection struct {
	Character string        `json:"character"`
	Type      CharacterType `json:"type,omitempty"`
	Direction Direction     `json:"direction"`
}

// Idle is the empty selection, pointing forwards.
func Idle() Selection {
	return Selection{Direction: Forward}
}

// Armed means there is a piece ready to move.
func (s Selection) Armed() bool {
	return s.Character != ""
}

// MoveRecord is one submitted move. Captured is never known when it's made.
type MoveRecord struct {
	Character         string    `json:"character"`
	Direction         Direction `json:"direction"`
	Captured          bool      `json:"captured"`
	CapturedCharacter string    `json:"capturedCharacter,omitempty"`
}
