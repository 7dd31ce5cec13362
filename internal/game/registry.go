package game

import (
	"encoding/json"
	"fmt"
)

type staticErr string

func (e staticErr) Error() string { return string(e) }

// ErrUnknownGameType signals a dispatch miss for a game type that was never
// registered.
var ErrUnknownGameType = staticErr("unknown game type")

// Registry maps game-type identifiers to their rule modules. It is built once
// at process init and never mutated afterwards; lookups need no locking.
type Registry struct {
	rules map[string]Rules
}

// NewRegistry returns a registry with all built-in game types registered.
func NewRegistry() *Registry {
	r := &Registry{rules: make(map[string]Rules)}
	mustRegister(r, TypeTicTacToe, ticTacToe{})
	mustRegister(r, TypeChess, chessRules{})
	return r
}

// Register adds a rule module under name. Duplicate or empty names are
// rejected so bad wiring surfaces at init, not at dispatch time.
func (r *Registry) Register(name string, rl Rules) error {
	if name == "" || rl == nil {
		return fmt.Errorf("invalid rule registration")
	}
	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("game type %q already registered", name)
	}
	r.rules[name] = rl
	return nil
}

func mustRegister(r *Registry, name string, rl Rules) {
	if err := r.Register(name, rl); err != nil {
		panic(err)
	}
}

// Types returns the registered game-type identifiers.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.rules))
	for name := range r.rules {
		out = append(out, name)
	}
	return out
}

// Create returns a fresh state for gameType.
func (r *Registry) Create(gameType string) (State, error) {
	rl, ok := r.rules[gameType]
	if !ok {
		return nil, ErrUnknownGameType
	}
	return rl.Create(), nil
}

// ApplyMove dispatches a move to gameType's rule module. An unknown type is
// the fail-safe reject: accepted=false, state untouched.
func (r *Registry) ApplyMove(gameType string, s State, playerIndex int, move json.RawMessage) (bool, error) {
	rl, ok := r.rules[gameType]
	if !ok {
		return false, ErrUnknownGameType
	}
	return rl.ApplyMove(s, playerIndex, move), nil
}

// Decode unmarshals stored state bytes into gameType's concrete variant.
func (r *Registry) Decode(gameType string, raw json.RawMessage) (State, error) {
	rl, ok := r.rules[gameType]
	if !ok {
		return nil, ErrUnknownGameType
	}
	s, err := rl.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s state: %w", gameType, err)
	}
	return s, nil
}
