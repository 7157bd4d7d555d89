package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// Store persists sessions in postgres so they survive restarts and can be
// shared by multiple api replicas.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across replica startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS training_sessions (
	id TEXT PRIMARY KEY,
	disease TEXT NOT NULL,
	symptoms TEXT NOT NULL,
	case_text TEXT NOT NULL,
	sources JSONB NOT NULL DEFAULT '[]'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, disease, symptoms, case_text, sources
FROM training_sessions
WHERE id = $1
`, id)

	var session domain.Session
	var sourcesRaw []byte

	err := row.Scan(&session.ID, &session.Disease, &session.Symptoms, &session.Case, &sourcesRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidSession
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if err := json.Unmarshal(sourcesRaw, &session.Sources); err != nil {
		return nil, fmt.Errorf("unmarshal session sources: %w", err)
	}
	return &session, nil
}

func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	sourcesJSON, err := json.Marshal(session.Sources)
	if err != nil {
		return fmt.Errorf("marshal session sources: %w", err)
	}
	if session.Sources == nil {
		sourcesJSON = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO training_sessions (id, disease, symptoms, case_text, sources, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
	disease = EXCLUDED.disease,
	symptoms = EXCLUDED.symptoms,
	case_text = EXCLUDED.case_text,
	sources = EXCLUDED.sources,
	updated_at = EXCLUDED.updated_at
`, session.ID, session.Disease, session.Symptoms, session.Case, sourcesJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM training_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
