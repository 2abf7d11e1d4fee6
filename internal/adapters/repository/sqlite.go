package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/maplehall/guildstats/internal/domain/model"
)

// SQLiteStore is the durable home of ingested weekly records. The import
// tool writes whole snapshots; the server only reads.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures
// the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenStore, path, err)
	}
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	// WAL lets the server read while an import is in flight.
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS weekly_record (
		week TEXT NOT NULL,
		player_id TEXT NOT NULL,
		job TEXT NOT NULL DEFAULT '',
		flag_score INTEGER NOT NULL DEFAULT 0,
		water_score INTEGER NOT NULL DEFAULT 0,
		castle_score INTEGER NOT NULL DEFAULT 0,
		weekly_status TEXT NOT NULL DEFAULT '',
		change_status TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL DEFAULT 0,
		image_ref TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (player_id, week)
	);
	CREATE INDEX IF NOT EXISTS idx_weekly_record_week ON weekly_record(week);

	CREATE TABLE IF NOT EXISTS snapshot_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		revision TEXT NOT NULL,
		imported_at TEXT NOT NULL
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// All returns every record ordered by week then player id.
func (s *SQLiteStore) All(ctx context.Context) ([]model.WeeklyRecord, error) {
	query := `SELECT week, player_id, job, flag_score, water_score, castle_score,
		weekly_status, change_status, level, image_ref
		FROM weekly_record ORDER BY week ASC, player_id ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query weekly records: %w", err)
	}
	defer rows.Close()

	var out []model.WeeklyRecord
	for rows.Next() {
		var rec model.WeeklyRecord
		var weekStr, weeklyStatus, changeStatus string
		if err := rows.Scan(
			&weekStr,
			&rec.PlayerID,
			&rec.Job,
			&rec.FlagScore,
			&rec.WaterScore,
			&rec.CastleScore,
			&weeklyStatus,
			&changeStatus,
			&rec.Level,
			&rec.ImageRef,
		); err != nil {
			return nil, fmt.Errorf("scan weekly record: %w", err)
		}
		week, ok := parseWeek(weekStr)
		if !ok {
			// unparseable weeks cannot be grouped into a period
			continue
		}
		rec.Week = week
		rec.WeeklyStatus = model.ParseWeeklyStatus(weeklyStatus)
		rec.ChangeStatus = model.ParseChangeStatus(changeStatus)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly records: %w", err)
	}
	return out, nil
}

// Revision returns the revision written by the last import, or ErrNoData
// when nothing has been imported yet.
func (s *SQLiteStore) Revision(ctx context.Context) (string, error) {
	var rev string
	err := s.db.QueryRowContext(ctx, "SELECT revision FROM snapshot_meta WHERE id = 1").Scan(&rev)
	if err == sql.ErrNoRows {
		return "", ErrNoData
	}
	if err != nil {
		return "", fmt.Errorf("query revision: %w", err)
	}
	return rev, nil
}

// ReplaceAll atomically swaps the whole record set and stamps the new
// revision. Used by the import tool; the server never writes.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, records []model.WeeklyRecord, revision string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM weekly_record"); err != nil {
		return fmt.Errorf("clear weekly records: %w", err)
	}
	insert := `INSERT INTO weekly_record
		(week, player_id, job, flag_score, water_score, castle_score,
		 weekly_status, change_status, level, image_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, week) DO UPDATE SET
			job=excluded.job,
			flag_score=excluded.flag_score,
			water_score=excluded.water_score,
			castle_score=excluded.castle_score,
			weekly_status=excluded.weekly_status,
			change_status=excluded.change_status,
			level=excluded.level,
			image_ref=excluded.image_ref`
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, insert,
			rec.Week.Format("2006-01-02"),
			rec.PlayerID,
			rec.Job,
			rec.FlagScore,
			rec.WaterScore,
			rec.CastleScore,
			rec.WeeklyStatus.String(),
			rec.ChangeStatus.String(),
			rec.Level,
			rec.ImageRef,
		); err != nil {
			return fmt.Errorf("insert record %s/%s: %w", rec.PlayerID, rec.Week.Format("2006-01-02"), err)
		}
	}

	meta := `INSERT INTO snapshot_meta (id, revision, imported_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET revision=excluded.revision, imported_at=excluded.imported_at`
	if _, err := tx.ExecContext(ctx, meta, revision, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("stamp revision: %w", err)
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
