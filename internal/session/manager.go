// Package session owns the session lifecycle: code allocation, join
// semantics, turn-gated move dispatch, chat append and TTL refresh on
// activity. It composes the game registry with a Store and is the only
// client doing the serialize/deserialize round trip.
package session

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/roomplay/internal/game"
	"github.com/park285/roomplay/internal/obslog"
	"github.com/park285/roomplay/internal/store"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type Manager struct {
	store    store.Store
	registry *game.Registry
	ttl      time.Duration
	attempts int
	archive  *Archive
}

func NewManager(st store.Store, reg *game.Registry, ttl time.Duration, codeAttempts int) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if codeAttempts <= 0 {
		codeAttempts = 10
	}
	return &Manager{store: st, registry: reg, ttl: ttl, attempts: codeAttempts}
}

// AttachArchive wires an optional repository for persisting finished games.
func (m *Manager) AttachArchive(a *Archive) {
	if m != nil {
		m.archive = a
	}
}

// TTL returns the expiry window applied to session activity.
func (m *Manager) TTL() time.Duration { return m.ttl }

// CreateSession allocates a fresh 6-char code and persists a new game of
// gameType under it. SetNX makes the collision check and the write one step,
// so two concurrent creates can never share a code.
func (m *Manager) CreateSession(ctx context.Context, gameType string) (string, error) {
	st, err := m.registry.Create(gameType)
	if err != nil {
		return "", err
	}
	raw, err := encodeRecord(&Record{
		UUID:      uuid.NewString(),
		GameType:  gameType,
		CreatedAt: time.Now(),
	}, st)
	if err != nil {
		return "", err
	}

	for i := 0; i < m.attempts; i++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}
		ok, err := m.store.SetNX(ctx, sessionKey(code), raw, m.ttl)
		if err != nil {
			return "", fmt.Errorf("store session: %w", err)
		}
		if ok {
			obslog.L().Info("session_create",
				zap.String("code", code),
				zap.String("game_type", gameType),
			)
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to allocate session code after %d attempts", m.attempts)
}

// JoinSession appends playerID to the session's player list and returns the
// new player's index plus the full list. Join order is turn order.
func (m *Manager) JoinSession(ctx context.Context, code, playerID string) (int, []string, error) {
	rec, st, err := m.load(ctx, code)
	if err != nil {
		return 0, nil, err
	}
	base := st.Common()
	if len(base.Players) >= 2 {
		return 0, nil, ErrFull
	}
	base.Players = append(base.Players, playerID)

	if err := m.save(ctx, code, rec, st); err != nil {
		return 0, nil, err
	}
	m.touch(ctx, code)
	obslog.L().Info("session_join",
		zap.String("code", code),
		zap.String("player", playerID),
		zap.Int("player_index", len(base.Players)-1),
	)
	return len(base.Players) - 1, base.Players, nil
}

// GetState returns the stored state. A read counts as activity and refreshes
// the TTL.
func (m *Manager) GetState(ctx context.Context, code string) (game.State, error) {
	_, st, err := m.load(ctx, code)
	if err != nil {
		return nil, err
	}
	m.touch(ctx, code)
	return st, nil
}

// ApplyMove validates membership and turn ownership, dispatches the move to
// the game's rule module and persists the result.
//
// The record is written back with plain get-then-set: two callers racing on
// the same session can both read the pre-move state and the second write
// wins. The turn check makes same-player races benign; the residual window
// is accepted (see DESIGN.md).
func (m *Manager) ApplyMove(ctx context.Context, code, playerID string, move json.RawMessage) (game.State, error) {
	rec, st, err := m.load(ctx, code)
	if err != nil {
		return nil, err
	}
	base := st.Common()
	playerIndex := indexOf(base.Players, playerID)
	if playerIndex < 0 {
		return nil, ErrPlayerUnknown
	}
	if base.GameOver || base.Turn != playerIndex {
		return nil, ErrNotYourTurn
	}

	accepted, err := m.registry.ApplyMove(rec.GameType, st, playerIndex, move)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ErrInvalidMove
	}

	if err := m.save(ctx, code, rec, st); err != nil {
		return nil, err
	}
	m.touch(ctx, code)
	obslog.L().Info("session_move",
		zap.String("code", code),
		zap.String("player", playerID),
		zap.Int("turn", base.Turn),
		zap.Bool("game_over", base.GameOver),
		zap.String("winner", base.Winner),
	)

	if base.GameOver && m.archive != nil {
		// best effort; archive failure never fails the move
		if aerr := m.archive.SaveFinished(ctx, rec, code, st); aerr != nil {
			obslog.L().Error("session_archive_error", zap.String("code", code), zap.Error(aerr))
		}
	}
	return st, nil
}

// AppendMessage appends a chat entry for a session member. The entry goes to
// the store's native list, so concurrent appends never lose messages.
func (m *Manager) AppendMessage(ctx context.Context, code, playerID, text string) error {
	_, st, err := m.load(ctx, code)
	if err != nil {
		return err
	}
	if indexOf(st.Common().Players, playerID) < 0 {
		return ErrPlayerUnknown
	}

	raw, err := json.Marshal(&Message{
		Player:    playerID,
		Text:      text,
		Timestamp: time.Now().Format("15:04"),
	})
	if err != nil {
		return err
	}
	if err := m.store.AppendToList(ctx, chatKey(code), raw, m.ttl); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	m.touch(ctx, code)
	obslog.L().Info("session_message", zap.String("code", code), zap.String("player", playerID))
	return nil
}

// ListMessages returns the session's chat in append order, empty when no
// message was ever sent.
func (m *Manager) ListMessages(ctx context.Context, code string) ([]Message, error) {
	if _, _, err := m.load(ctx, code); err != nil {
		return nil, err
	}
	items, err := m.store.GetList(ctx, chatKey(code))
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	m.touch(ctx, code)

	out := make([]Message, 0, len(items))
	for _, raw := range items {
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// load fetches and decodes the record under code. A store miss is ErrNotFound.
func (m *Manager) load(ctx context.Context, code string) (*Record, game.State, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil, ErrNotFound
	}
	raw, err := m.store.Get(ctx, sessionKey(code))
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		return nil, nil, ErrNotFound
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, nil, fmt.Errorf("decode session: %w", err)
	}
	st, err := m.registry.Decode(rec.GameType, rec.State)
	if err != nil {
		return nil, nil, err
	}
	return &rec, st, nil
}

func (m *Manager) save(ctx context.Context, code string, rec *Record, st game.State) error {
	raw, err := encodeRecord(rec, st)
	if err != nil {
		return err
	}
	if err := m.store.SetWithTTL(ctx, sessionKey(code), raw, m.ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// touch resets the TTL on both of the code's entries so record and chat
// expire together.
func (m *Manager) touch(ctx context.Context, code string) {
	if err := m.store.RefreshTTL(ctx, m.ttl, sessionKey(code), chatKey(code)); err != nil {
		obslog.L().Warn("session_ttl_refresh_error", zap.String("code", code), zap.Error(err))
	}
}

func encodeRecord(rec *Record, st game.State) ([]byte, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	rec.State = raw
	out, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func indexOf(players []string, playerID string) int {
	for i, p := range players {
		if p == playerID {
			return i
		}
	}
	return -1
}

// generateCode returns 6 characters drawn from A-Z0-9 via crypto/rand.
func generateCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}
