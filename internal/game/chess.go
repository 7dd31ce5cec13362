package game

import (
	"encoding/json"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// TypeChess identifies the chess game type. Player index 0 plays white,
// index 1 plays black; moves are UCI strings (e.g. "e2e4").
const TypeChess = "chess"

// ChessState is the chess variant of State. The position is reconstructed
// from MovesUCI on every move; FEN is maintained for presentation only.
type ChessState struct {
	Base
	MovesUCI []string `json:"moves_uci"`
	FEN      string   `json:"fen"`
}

type chessRules struct{}

func (chessRules) Create() State {
	return &ChessState{
		Base:     Base{Players: []string{}},
		MovesUCI: []string{},
		FEN:      nchess.NewGame().FEN(),
	}
}

func (chessRules) Decode(raw json.RawMessage) (State, error) {
	var s ChessState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (chessRules) ApplyMove(st State, playerIndex int, move json.RawMessage) bool {
	s, ok := st.(*ChessState)
	if !ok {
		return false
	}
	if s.GameOver {
		return false
	}
	var uci string
	if err := json.Unmarshal(move, &uci); err != nil {
		return false
	}
	uci = strings.ToLower(strings.TrimSpace(uci))
	if uci == "" {
		return false
	}

	g := reconstruct(s.MovesUCI)
	if g == nil {
		return false
	}
	mv, err := nchess.UCINotation{}.Decode(g.Position(), uci)
	if err != nil {
		return false
	}
	g.Move(mv, nil)
	s.MovesUCI = append(s.MovesUCI, uci)
	s.FEN = g.FEN()

	switch g.Outcome() {
	case nchess.WhiteWon:
		s.GameOver = true
		s.Winner = "white"
	case nchess.BlackWon:
		s.GameOver = true
		s.Winner = "black"
	case nchess.Draw:
		s.GameOver = true
		s.Winner = WinnerTie
	default:
		s.Turn = 1 - s.Turn
	}
	return true
}

// reconstruct replays the stored UCI moves from the start position. Applying
// the stored FEN instead could double-apply moves, so it is never used here.
func reconstruct(moves []string) *nchess.Game {
	g := nchess.NewGame()
	for _, mv := range moves {
		if err := g.PushNotationMove(mv, nchess.UCINotation{}, nil); err != nil {
			return nil
		}
	}
	return g
}
