package game

import (
	"encoding/json"
	"testing"
)

func TestRegistryCreateUnknownType(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create("checkers"); err != ErrUnknownGameType {
		t.Fatalf("expected ErrUnknownGameType, got %v", err)
	}
}

func TestRegistryApplyMoveUnknownTypeIsFailSafe(t *testing.T) {
	r := NewRegistry()
	s, err := r.Create(TypeTicTacToe)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	accepted, err := r.ApplyMove("checkers", s, 0, moveIdx(0))
	if accepted || err != ErrUnknownGameType {
		t.Fatalf("expected fail-safe reject, got accepted=%v err=%v", accepted, err)
	}
	if mustTTT(t, s).Board[0] != "" {
		t.Fatalf("state altered by unknown-type dispatch")
	}
}

func TestRegistryDecodeRoundTrip(t *testing.T) {
	r := NewRegistry()
	s, err := r.Create(TypeTicTacToe)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ttt := mustTTT(t, s)
	ttt.Players = []string{"alice", "bob"}
	ttt.Board[4] = "X"
	ttt.Turn = 1

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := r.Decode(TypeTicTacToe, raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	dec := mustTTT(t, got)
	if dec.Board[4] != "X" || dec.Turn != 1 || len(dec.Players) != 2 {
		t.Fatalf("round trip mismatch: %+v", dec)
	}
}

func TestRegistryRejectsDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(TypeTicTacToe, ticTacToe{}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := r.Register("", ticTacToe{}); err == nil {
		t.Fatalf("expected empty-name registration error")
	}
}
