package game

import (
	"encoding/json"
	"testing"
)

func mustTTT(t *testing.T, s State) *TicTacToeState {
	t.Helper()
	ttt, ok := s.(*TicTacToeState)
	if !ok {
		t.Fatalf("expected *TicTacToeState, got %T", s)
	}
	return ttt
}

func moveIdx(i int) json.RawMessage {
	raw, _ := json.Marshal(i)
	return raw
}

func TestTicTacToeCreate(t *testing.T) {
	s := mustTTT(t, ticTacToe{}.Create())
	if len(s.Players) != 0 || s.Turn != 0 || s.GameOver {
		t.Fatalf("unexpected fresh state: %+v", s)
	}
	if len(s.Board) != 9 {
		t.Fatalf("expected 9 cells, got %d", len(s.Board))
	}
	for i, c := range s.Board {
		if c != "" {
			t.Fatalf("cell %d not empty: %q", i, c)
		}
	}
}

func TestTicTacToeMoveMarksAndFlipsTurn(t *testing.T) {
	s := mustTTT(t, ticTacToe{}.Create())
	if !(ticTacToe{}).ApplyMove(s, 0, moveIdx(4)) {
		t.Fatalf("expected move accepted")
	}
	if s.Board[4] != "X" {
		t.Fatalf("expected X at 4, got %q", s.Board[4])
	}
	if s.Turn != 1 || s.GameOver {
		t.Fatalf("expected turn=1 game running, got turn=%d over=%v", s.Turn, s.GameOver)
	}
	if !(ticTacToe{}).ApplyMove(s, 1, moveIdx(0)) {
		t.Fatalf("expected second move accepted")
	}
	if s.Board[0] != "O" || s.Turn != 0 {
		t.Fatalf("expected O at 0 and turn back to 0, got %q turn=%d", s.Board[0], s.Turn)
	}
}

func TestTicTacToeRejects(t *testing.T) {
	s := mustTTT(t, ticTacToe{}.Create())
	s.Board[3] = "X"

	cases := []struct {
		name string
		move json.RawMessage
	}{
		{"occupied", moveIdx(3)},
		{"negative", moveIdx(-1)},
		{"out of range", moveIdx(9)},
		{"not a number", json.RawMessage(`"four"`)},
	}
	for _, tc := range cases {
		before := append([]string(nil), s.Board...)
		if (ticTacToe{}).ApplyMove(s, 1, tc.move) {
			t.Fatalf("%s: expected reject", tc.name)
		}
		for i := range before {
			if s.Board[i] != before[i] {
				t.Fatalf("%s: rejected move altered board at %d", tc.name, i)
			}
		}
		if s.Turn != 0 {
			t.Fatalf("%s: rejected move advanced turn", tc.name)
		}
	}
}

func TestTicTacToeAllWinLines(t *testing.T) {
	for _, line := range winLines {
		s := mustTTT(t, ticTacToe{}.Create())
		// pre-fill two of the line for X, finish with the third
		s.Board[line[0]] = "X"
		s.Board[line[1]] = "X"
		if !(ticTacToe{}).ApplyMove(s, 0, moveIdx(line[2])) {
			t.Fatalf("line %v: winning move rejected", line)
		}
		if !s.GameOver || s.Winner != "X" {
			t.Fatalf("line %v: expected X win, got over=%v winner=%q", line, s.GameOver, s.Winner)
		}
		if len(s.WinningLine) != 3 ||
			s.WinningLine[0] != line[0] || s.WinningLine[1] != line[1] || s.WinningLine[2] != line[2] {
			t.Fatalf("line %v: wrong winning line %v", line, s.WinningLine)
		}
		if s.Turn != 0 {
			t.Fatalf("line %v: turn advanced after terminal move", line)
		}
	}
}

func TestTicTacToeTie(t *testing.T) {
	s := mustTTT(t, ticTacToe{}.Create())
	// X O X / X O O / O X _ with X to move into 8: full board, no line
	s.Board = []string{"X", "O", "X", "X", "O", "O", "O", "X", ""}
	if !(ticTacToe{}).ApplyMove(s, 0, moveIdx(8)) {
		t.Fatalf("tie-completing move rejected")
	}
	if !s.GameOver || s.Winner != WinnerTie {
		t.Fatalf("expected tie, got over=%v winner=%q", s.GameOver, s.Winner)
	}
	if len(s.WinningLine) != 0 {
		t.Fatalf("expected empty winning line on tie, got %v", s.WinningLine)
	}
}

func TestTicTacToeFrozenAfterGameOver(t *testing.T) {
	s := mustTTT(t, ticTacToe{}.Create())
	s.GameOver = true
	s.Winner = "X"
	if (ticTacToe{}).ApplyMove(s, 1, moveIdx(5)) {
		t.Fatalf("expected reject after game over")
	}
	if s.Board[5] != "" {
		t.Fatalf("post-game move altered board")
	}
}
