package session

import (
	"encoding/json"
	"time"
)

// Key prefixes over the same code: record and chat list are separate entries
// that expire and refresh together.
const (
	keyPrefixSession = "rp:session:"
	keyPrefixChat    = "rp:chat:"
)

func sessionKey(code string) string { return keyPrefixSession + code }
func chatKey(code string) string    { return keyPrefixChat + code }

// Record is the persisted session envelope. State stays raw here; the game
// registry decodes it into the registered concrete variant.
type Record struct {
	UUID      string          `json:"uuid"`
	GameType  string          `json:"game_type"`
	State     json.RawMessage `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
}

// Message is one chat entry. Timestamp is wall-clock minute precision
// ("15:04"), immutable once appended.
type Message struct {
	Player    string `json:"player"`
	Text      string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Errors recovered at the manager boundary. Storage failures are wrapped raw
// errors, everything else is one of these sentinels.
var (
	ErrNotFound      = errf("session not found or expired")
	ErrFull          = errf("session already has two players")
	ErrPlayerUnknown = errf("player not in session")
	ErrNotYourTurn   = errf("not your turn")
	ErrInvalidMove   = errf("invalid move")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
