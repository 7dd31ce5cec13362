package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/roomplay/internal/game"
)

// Archive persists finished games to Postgres for later inspection. The
// session engine works without it; moves are never failed by archive errors.
type Archive struct {
	db *sql.DB
}

func NewArchive(databaseURL string) (*Archive, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// SaveFinished upserts one finished session row keyed by the session UUID.
func (a *Archive) SaveFinished(ctx context.Context, rec *Record, code string, st game.State) error {
	if a == nil || a.db == nil || rec == nil || st == nil {
		return nil
	}
	base := st.Common()
	if !base.GameOver {
		return nil
	}

	playersRaw, err := json.Marshal(base.Players)
	if err != nil {
		return fmt.Errorf("marshal players: %w", err)
	}

	const q = `INSERT INTO finished_sessions (
	    session_uuid, code, game_type, players, winner, created_at, finished_at
	  ) VALUES (
	    $1, $2, $3, $4::jsonb, $5, $6, $7
	  ) ON CONFLICT (session_uuid) DO UPDATE SET
	    winner=EXCLUDED.winner,
	    finished_at=EXCLUDED.finished_at`

	_, err = a.db.ExecContext(ctx, q,
		rec.UUID,
		code,
		rec.GameType,
		string(playersRaw),
		base.Winner,
		rec.CreatedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert finished session: %w", err)
	}
	return nil
}
