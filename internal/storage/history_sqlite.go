package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Thiht/transactor"
	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pomodesk/internal/core/engine"
)

// ErrNotFound is returned when a history row does not exist.
var ErrNotFound = errors.New("not found")

const (
	dayLayout          = "2006-01-02"
	selectAllSessions  = "SELECT id, mode, kind, seconds, completed_at, day FROM sessions"
	selectAllDailyStat = "SELECT day, work_sessions, short_breaks, long_breaks, focus_seconds, break_seconds FROM daily_stats"
)

// SessionRecord is one completed Pomodoro session.
type SessionRecord struct {
	ID          string             `json:"id"`
	Mode        engine.Mode        `json:"mode"`
	Kind        engine.SessionKind `json:"kind"`
	Seconds     uint32             `json:"seconds"`
	CompletedAt time.Time          `json:"completedAt"`
	Day         string             `json:"day"`
}

// DailyStats aggregates the sessions completed on one local day.
type DailyStats struct {
	Day          string `json:"day"`
	WorkSessions uint32 `json:"workSessions"`
	ShortBreaks  uint32 `json:"shortBreaks"`
	LongBreaks   uint32 `json:"longBreaks"`
	FocusSeconds uint64 `json:"focusSeconds"`
	BreakSeconds uint64 `json:"breakSeconds"`
}

type scannable interface {
	Scan(dest ...any) error
}

// HistoryRepo stores completed sessions and their daily totals in SQLite.
type HistoryRepo struct {
	tx       transactor.Transactor
	dbGetter txStdLib.DBGetter
	location *time.Location
	logger   *log.Logger
}

// OpenDB opens the SQLite database at path and applies migrations.
func OpenDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewHistoryRepo creates a repository over db. Days are computed in location;
// nil means time.Local.
func NewHistoryRepo(db *sql.DB, location *time.Location, logger *log.Logger) *HistoryRepo {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = log.Default()
	}
	tx, dbGetter := txStdLib.NewTransactor(db, txStdLib.NestedTransactionsSavepoints)
	return &HistoryRepo{tx: tx, dbGetter: dbGetter, location: location, logger: logger}
}

// Day returns the history day key of t.
func (r *HistoryRepo) Day(t time.Time) string {
	return t.In(r.location).Format(dayLayout)
}

// RecordCompletion inserts the session and folds it into its day's totals
// in one transaction.
func (r *HistoryRepo) RecordCompletion(ctx context.Context, completion engine.Completion) (SessionRecord, error) {
	record := SessionRecord{
		ID:          uuid.NewString(),
		Mode:        completion.Mode,
		Kind:        completion.Kind,
		Seconds:     completion.Seconds,
		CompletedAt: completion.At,
		Day:         r.Day(completion.At),
	}
	delta := statsDelta(record)

	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		db := r.dbGetter(ctx)

		query := "INSERT INTO sessions (id, mode, kind, seconds, completed_at, day) VALUES (?, ?, ?, ?, ?, ?)"
		args := []any{record.ID, record.Mode.String(), string(record.Kind), record.Seconds, record.CompletedAt.UnixMilli(), record.Day}
		r.logger.Debug("inserting session", "query", query, "args", args)
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		query = `INSERT INTO daily_stats (day, work_sessions, short_breaks, long_breaks, focus_seconds, break_seconds)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(day) DO UPDATE SET
    work_sessions = work_sessions + excluded.work_sessions,
    short_breaks = short_breaks + excluded.short_breaks,
    long_breaks = long_breaks + excluded.long_breaks,
    focus_seconds = focus_seconds + excluded.focus_seconds,
    break_seconds = break_seconds + excluded.break_seconds`
		args = []any{delta.Day, delta.WorkSessions, delta.ShortBreaks, delta.LongBreaks, delta.FocusSeconds, delta.BreakSeconds}
		r.logger.Debug("updating daily stats", "day", delta.Day)
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update daily stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return SessionRecord{}, err
	}
	return record, nil
}

// GetSession returns one stored session.
func (r *HistoryRepo) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	if id == "" {
		return SessionRecord{}, fmt.Errorf("provide id")
	}
	row := r.dbGetter(ctx).QueryRowContext(ctx, selectAllSessions+" WHERE id = ?", id)
	return extractSession(row)
}

// RecentSessions returns up to limit sessions, newest first.
func (r *HistoryRepo) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.dbGetter(ctx).QueryContext(ctx, selectAllSessions+" ORDER BY completed_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close() //nolint

	var sessions []SessionRecord
	for rows.Next() {
		session, err := extractSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return sessions, nil
}

// DailyStats returns the totals for day. A day without sessions has zero totals.
func (r *HistoryRepo) DailyStats(ctx context.Context, day string) (DailyStats, error) {
	row := r.dbGetter(ctx).QueryRowContext(ctx, selectAllDailyStat+" WHERE day = ?", day)
	stats, err := extractDailyStats(row)
	if errors.Is(err, ErrNotFound) {
		return DailyStats{Day: day}, nil
	}
	return stats, err
}

// Today returns the totals for the current local day.
func (r *HistoryRepo) Today(ctx context.Context) (DailyStats, error) {
	return r.DailyStats(ctx, r.Day(time.Now()))
}

func statsDelta(record SessionRecord) DailyStats {
	delta := DailyStats{Day: record.Day}
	switch record.Mode {
	case engine.ModeWork:
		delta.WorkSessions = 1
		delta.FocusSeconds = uint64(record.Seconds)
	case engine.ModeShortBreak:
		delta.ShortBreaks = 1
		delta.BreakSeconds = uint64(record.Seconds)
	case engine.ModeLongBreak:
		delta.LongBreaks = 1
		delta.BreakSeconds = uint64(record.Seconds)
	}
	return delta
}

func extractSession(s scannable) (SessionRecord, error) {
	var (
		record      SessionRecord
		mode, kind  string
		completedAt int64
	)
	if err := s.Scan(&record.ID, &mode, &kind, &record.Seconds, &completedAt, &record.Day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SessionRecord{}, ErrNotFound
		}
		return SessionRecord{}, fmt.Errorf("scan session: %w", err)
	}
	if err := record.Mode.UnmarshalText([]byte(mode)); err != nil {
		return SessionRecord{}, fmt.Errorf("scan session %s: %w", record.ID, err)
	}
	record.Kind = engine.SessionKind(kind)
	record.CompletedAt = time.UnixMilli(completedAt)
	return record, nil
}

func extractDailyStats(s scannable) (DailyStats, error) {
	var stats DailyStats
	if err := s.Scan(&stats.Day, &stats.WorkSessions, &stats.ShortBreaks, &stats.LongBreaks, &stats.FocusSeconds, &stats.BreakSeconds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DailyStats{}, ErrNotFound
		}
		return DailyStats{}, fmt.Errorf("scan daily stats: %w", err)
	}
	return stats, nil
}
