package game

import "encoding/json"

// TypeTicTacToe identifies the 3x3 marking game.
const TypeTicTacToe = "tic-tac-toe"

// TicTacToeState is the tic-tac-toe variant of State. Board cells hold "",
// "X" or "O"; WinningLine lists the three cell indices of a winning line and
// stays empty on a tie.
type TicTacToeState struct {
	Base
	Board       []string `json:"board"`
	WinningLine []int    `json:"winning_line"`
}

// winLines enumerates the 8 ways to win: 3 rows, 3 columns, 2 diagonals.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

type ticTacToe struct{}

func (ticTacToe) Create() State {
	return &TicTacToeState{
		Base:        Base{Players: []string{}},
		Board:       make([]string, 9),
		WinningLine: []int{},
	}
}

func (ticTacToe) Decode(raw json.RawMessage) (State, error) {
	var s TicTacToeState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyMove marks the cell given by move (a JSON number, 0-8) with the
// caller's symbol and evaluates terminal conditions. Out-of-range, occupied
// and post-game moves are rejected with the state untouched.
func (ticTacToe) ApplyMove(st State, playerIndex int, move json.RawMessage) bool {
	s, ok := st.(*TicTacToeState)
	if !ok {
		return false
	}
	var idx int
	if err := json.Unmarshal(move, &idx); err != nil {
		return false
	}
	if s.GameOver || idx < 0 || idx >= len(s.Board) || s.Board[idx] != "" {
		return false
	}

	mark := "X"
	if playerIndex == 1 {
		mark = "O"
	}
	s.Board[idx] = mark

	if winner, line := scanBoard(s.Board); winner != "" {
		s.GameOver = true
		s.Winner = winner
		s.WinningLine = line
	} else {
		s.Turn = 1 - s.Turn
	}
	return true
}

// scanBoard checks every winning line, then the tie condition. Returns the
// winning mark and its line, WinnerTie with an empty line on a full board, or
// "" while the game continues.
func scanBoard(board []string) (string, []int) {
	for _, line := range winLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != "" && a == b && b == c {
			return a, []int{line[0], line[1], line[2]}
		}
	}
	for _, cell := range board {
		if cell == "" {
			return "", nil
		}
	}
	return WinnerTie, []int{}
}
