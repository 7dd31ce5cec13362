package game

import (
	"encoding/json"
	"testing"
)

func mustChess(t *testing.T, s State) *ChessState {
	t.Helper()
	cs, ok := s.(*ChessState)
	if !ok {
		t.Fatalf("expected *ChessState, got %T", s)
	}
	return cs
}

func uciMove(mv string) json.RawMessage {
	raw, _ := json.Marshal(mv)
	return raw
}

func TestChessCreate(t *testing.T) {
	s := mustChess(t, chessRules{}.Create())
	if len(s.Players) != 0 || s.Turn != 0 || s.GameOver || len(s.MovesUCI) != 0 {
		t.Fatalf("unexpected fresh state: %+v", s)
	}
	if s.FEN == "" {
		t.Fatalf("expected start FEN to be set")
	}
}

func TestChessMoveAcceptedAndTurnFlips(t *testing.T) {
	s := mustChess(t, chessRules{}.Create())
	if !(chessRules{}).ApplyMove(s, 0, uciMove("e2e4")) {
		t.Fatalf("expected e2e4 accepted")
	}
	if len(s.MovesUCI) != 1 || s.MovesUCI[0] != "e2e4" {
		t.Fatalf("move list not updated: %v", s.MovesUCI)
	}
	if s.Turn != 1 || s.GameOver {
		t.Fatalf("expected turn=1 game running, got turn=%d over=%v", s.Turn, s.GameOver)
	}
}

func TestChessRejectsIllegalMove(t *testing.T) {
	s := mustChess(t, chessRules{}.Create())
	for _, mv := range []string{"e2e5", "nonsense", ""} {
		if (chessRules{}).ApplyMove(s, 0, uciMove(mv)) {
			t.Fatalf("expected %q rejected", mv)
		}
	}
	if len(s.MovesUCI) != 0 || s.Turn != 0 {
		t.Fatalf("rejected moves altered state: %+v", s)
	}
}

func TestChessFoolsMate(t *testing.T) {
	s := mustChess(t, chessRules{}.Create())
	moves := []string{"f2f3", "e7e5", "g2g4", "d8h4"}
	for i, mv := range moves {
		if !(chessRules{}).ApplyMove(s, i%2, uciMove(mv)) {
			t.Fatalf("move %d (%s) rejected", i, mv)
		}
	}
	if !s.GameOver || s.Winner != "black" {
		t.Fatalf("expected black checkmate, got over=%v winner=%q", s.GameOver, s.Winner)
	}
	// frozen after mate
	if (chessRules{}).ApplyMove(s, 0, uciMove("a2a3")) {
		t.Fatalf("expected reject after checkmate")
	}
}
