package game

import "encoding/json"

// WinnerTie is the winner sentinel recorded when a game ends without a victor.
const WinnerTie = "tie"

// Base holds the fields every game state shares. Player order is join order
// and doubles as turn order; Turn indexes into Players.
type Base struct {
	Players  []string `json:"players"`
	Turn     int      `json:"turn"`
	GameOver bool     `json:"game_over"`
	Winner   string   `json:"winner,omitempty"`
}

// State is one registered game's full state. Concrete variants embed Base and
// add their own fields (board, move list, ...).
type State interface {
	Common() *Base
}

func (b *Base) Common() *Base { return b }

// Rules defines one game type: a fresh-state constructor, the legal-move
// transition, and decoding of stored bytes back into the concrete variant.
// ApplyMove mutates s in place and reports whether the move was accepted;
// rejected moves must leave s untouched. Implementations are pure apart from
// that mutation: no I/O, deterministic given inputs.
type Rules interface {
	Create() State
	ApplyMove(s State, playerIndex int, move json.RawMessage) bool
	Decode(raw json.RawMessage) (State, error)
}
