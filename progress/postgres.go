package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zantaku/Zantaku-sub000/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS episode_progress (
  media_id         TEXT        NOT NULL,
  episode          INTEGER     NOT NULL,
  position_seconds DOUBLE PRECISION NOT NULL,
  duration_seconds DOUBLE PRECISION NOT NULL,
  completed        BOOLEAN     NOT NULL DEFAULT FALSE,
  client_ts_ms     BIGINT      NOT NULL,
  updated_at       TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (media_id, episode)
)`

// Older client timestamps never overwrite newer ones, so redelivered reports are harmless.
const upsert = `
INSERT INTO episode_progress (media_id, episode, position_seconds, duration_seconds, completed, client_ts_ms, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (media_id, episode)
DO UPDATE SET
  position_seconds = EXCLUDED.position_seconds,
  duration_seconds = EXCLUDED.duration_seconds,
  completed        = episode_progress.completed OR EXCLUDED.completed,
  client_ts_ms     = EXCLUDED.client_ts_ms,
  updated_at       = EXCLUDED.updated_at
WHERE episode_progress.client_ts_ms <= EXCLUDED.client_ts_ms`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSink upserts reports into the episode_progress table.
type PostgresSink struct {
	db   execer
	pool *pgxpool.Pool
}

// NewPostgresSink connects with dsn and creates the table when missing.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	sink := &PostgresSink{db: pool, pool: pool}
	if err := sink.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return sink, nil
}

func (s *PostgresSink) migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create episode_progress: %w", err)
	}
	return nil
}

func (s *PostgresSink) Report(ctx context.Context, report Report) error {
	at := report.At
	if at.IsZero() {
		at = time.Now()
	}

	tag, err := s.db.Exec(ctx, upsert,
		report.MediaID, report.Episode, report.CurrentTime, report.Duration,
		report.Fraction() >= DefaultUpperBound, at.UnixMilli(), at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		log.WithFields(map[string]any{
			"media_id": report.MediaID,
			"episode":  report.Episode,
		}).Debugf("stale progress report ignored")
	}
	return nil
}

// Close releases the pool.
func (s *PostgresSink) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
