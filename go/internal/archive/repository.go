package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"

	"github.com/rvbops/warroom/go/internal/events"
	"github.com/rvbops/warroom/go/internal/models"
	"github.com/rvbops/warroom/go/internal/sqlutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS exercise_events (
    id          TEXT PRIMARY KEY,
    kind        TEXT NOT NULL,
    ts          TIMESTAMPTZ,
    payload     JSONB,
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS exercise_events_kind_idx ON exercise_events (kind, recorded_at);
CREATE TABLE IF NOT EXISTS exercise_alerts (
    id          TEXT PRIMARY KEY,
    ts          TIMESTAMPTZ,
    source      TEXT,
    severity    TEXT,
    summary     TEXT,
    body        JSONB,
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS exercise_scores (
    seq         BIGSERIAL PRIMARY KEY,
    red         INT NOT NULL,
    blue        INT NOT NULL,
    mttd        DOUBLE PRECISION,
    mttc        DOUBLE PRECISION,
    breakdown   JSONB,
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Repository archives events into Postgres.
type Repository struct {
	db *sql.DB
}

// OpenRepository connects to Postgres and ensures the archive schema.
func OpenRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure archive schema: %w", err)
	}
	return &Repository{db: db}, nil
}

type txQueries struct {
	tx *sql.Tx
}

func newTxQueries(tx *sql.Tx) *txQueries {
	return &txQueries{tx: tx}
}

func (q *txQueries) insertEvent(ctx context.Context, ev events.Event) error {
	_, err := q.tx.ExecContext(ctx,
		`INSERT INTO exercise_events (id, kind, ts, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		ev.ID,
		string(ev.Kind),
		sqlutil.ToSqlTime(ev.TS.Time),
		pqtype.NullRawMessage{RawMessage: ev.Payload, Valid: len(ev.Payload) > 0},
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", ev.ID, err)
	}
	return nil
}

func (q *txQueries) insertAlert(ctx context.Context, a models.Alert) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert %s: %w", a.ID, err)
	}
	_, err = q.tx.ExecContext(ctx,
		`INSERT INTO exercise_alerts (id, ts, source, severity, summary, body)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		a.ID,
		sqlutil.ToSqlTime(a.Timestamp.Time),
		a.Source,
		a.Severity,
		a.Summary,
		pqtype.NullRawMessage{RawMessage: body, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert alert %s: %w", a.ID, err)
	}
	return nil
}

func (q *txQueries) insertScore(ctx context.Context, sc models.Score) error {
	breakdown, err := json.Marshal(sc.RoundBreakdown)
	if err != nil {
		return fmt.Errorf("marshal score breakdown: %w", err)
	}
	_, err = q.tx.ExecContext(ctx,
		`INSERT INTO exercise_scores (red, blue, mttd, mttc, breakdown)
		 VALUES ($1, $2, $3, $4, $5)`,
		sc.Red,
		sc.Blue,
		sc.MTTD,
		sc.MTTC,
		pqtype.NullRawMessage{RawMessage: breakdown, Valid: sc.RoundBreakdown != nil},
	)
	if err != nil {
		return fmt.Errorf("insert score snapshot: %w", err)
	}
	return nil
}

// Publish archives a single event. Conflicting ids are ignored so the
// archive stays idempotent across reconnect replays.
func (r *Repository) Publish(ctx context.Context, ev events.Event) error {
	return sqlutil.Run(ctx, r.db, newTxQueries, func(q *txQueries) error {
		return q.insertEvent(ctx, ev)
	})
}

// PublishBatch archives a slice of events in one transaction.
func (r *Repository) PublishBatch(ctx context.Context, evs []events.Event) error {
	return sqlutil.Run(ctx, r.db, newTxQueries, func(q *txQueries) error {
		for _, ev := range evs {
			if err := q.insertEvent(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	})
}

// PublishAlert archives a sensor alert, idempotent by alert id.
func (r *Repository) PublishAlert(ctx context.Context, a models.Alert) error {
	return sqlutil.Run(ctx, r.db, newTxQueries, func(q *txQueries) error {
		return q.insertAlert(ctx, a)
	})
}

// PublishScore appends one score snapshot. Snapshots are written only when
// the score changed, so the table doubles as a scoring timeline.
func (r *Repository) PublishScore(ctx context.Context, sc models.Score) error {
	return sqlutil.Run(ctx, r.db, newTxQueries, func(q *txQueries) error {
		return q.insertScore(ctx, sc)
	})
}

// RecentEvents returns the most recently recorded events, newest first.
func (r *Repository) RecentEvents(ctx context.Context, limit int) ([]events.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, ts, payload FROM exercise_events
		 ORDER BY recorded_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// EventsByKind returns archived events of one kind, newest first.
func (r *Repository) EventsByKind(ctx context.Context, kind events.Kind, limit int) ([]events.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, ts, payload FROM exercise_events
		 WHERE kind = $1 ORDER BY recorded_at DESC LIMIT $2`, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("query events by kind: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]events.Event, error) {
	var out []events.Event
	for rows.Next() {
		var (
			ev      events.Event
			kind    string
			ts      sql.NullTime
			payload pqtype.NullRawMessage
		)
		if err := rows.Scan(&ev.ID, &kind, &ts, &payload); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		ev.Kind = events.Kind(kind)
		ev.TS = models.NewTimestamp(sqlutil.FromSqlTime(ts))
		if payload.Valid {
			ev.Payload = payload.RawMessage
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

var _ Publisher = (*Repository)(nil)

// Prune deletes archived rows older than the retention window and
// returns the total number removed.
func (r *Repository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	interval := fmt.Sprintf("%d seconds", int(olderThan.Seconds()))
	var total int64
	for _, table := range []string{"exercise_events", "exercise_alerts", "exercise_scores"} {
		res, err := r.db.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE recorded_at < now() - $1::interval`, table),
			interval)
		if err != nil {
			return total, fmt.Errorf("prune %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("prune %s rows affected: %w", table, err)
		}
		total += n
	}
	return total, nil
}
