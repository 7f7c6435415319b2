package observability

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/docparse/dbopen"
	"github.com/hazyhaar/docparse/idgen"
)

// ParseEvent records the outcome of a single document parse.
type ParseEvent struct {
	FileName     string
	FileType     string
	FileSize     int64
	Success      bool
	ErrorMessage string
	PageCount    int
	RawChars     int
	CleanedChars int
	RemovedLines int
	Duration     time.Duration
	RequestID    string
}

// EventLogger writes parse events and manages retention cleanup.
type EventLogger struct {
	db    *sql.DB
	newID idgen.Generator
}

// EventLoggerOption configures an EventLogger.
type EventLoggerOption func(*EventLogger)

// WithEventIDGenerator sets a custom ID generator for event IDs.
func WithEventIDGenerator(gen idgen.Generator) EventLoggerOption {
	return func(l *EventLogger) { l.newID = gen }
}

// NewEventLogger creates a logger backed by the given observability database.
func NewEventLogger(db *sql.DB, opts ...EventLoggerOption) *EventLogger {
	l := &EventLogger{
		db:    db,
		newID: idgen.Prefixed("evt_", idgen.Default),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// LogParse records a parse event. Non-blocking: errors are logged via slog
// but do not propagate, so a failing observability store never blocks the app.
func (l *EventLogger) LogParse(ctx context.Context, event ParseEvent) {
	eventID := l.newID()
	_, err := dbopen.Exec(ctx, l.db, `
		INSERT INTO parse_events (
			event_id, file_name, file_type, file_size, success, error_message,
			page_count, raw_chars, cleaned_chars, removed_lines, duration_ms,
			request_id, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		eventID, event.FileName, event.FileType, event.FileSize, event.Success,
		nullIfEmpty(event.ErrorMessage), event.PageCount, event.RawChars,
		event.CleanedChars, event.RemovedLines, event.Duration.Milliseconds(),
		nullIfEmpty(event.RequestID), time.Now().Unix())
	if err != nil {
		slog.Error("observability parse event failed", "error", err, "file", event.FileName)
	}
}

// ParseCounts summarises recorded parse events.
type ParseCounts struct {
	Total  int64 `json:"total"`
	Failed int64 `json:"failed"`
}

// Counts returns aggregate parse event counts.
func (l *EventLogger) Counts(ctx context.Context) (ParseCounts, error) {
	var c ParseCounts
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0)
		FROM parse_events`).Scan(&c.Total, &c.Failed)
	if err != nil {
		return ParseCounts{}, fmt.Errorf("count parse events: %w", err)
	}
	return c, nil
}

// RetentionConfig specifies per-table retention in days. Zero means no cleanup.
type RetentionConfig struct {
	ParseEventsDays int
	MetricsDays     int
	RunVacuumAfter  bool
}

// Cleanup deletes records exceeding the retention thresholds.
func Cleanup(ctx context.Context, db *sql.DB, cfg RetentionConfig) error {
	now := time.Now().Unix()

	// allowedTables and allowedColumns are whitelists to prevent SQL injection
	// if this pattern is ever refactored to accept external input.
	allowedTables := map[string]bool{
		"parse_events":       true,
		"metrics_timeseries": true,
	}
	allowedColumns := map[string]bool{
		"created_at": true,
		"timestamp":  true,
	}

	type cleanupTarget struct {
		table  string
		column string
		days   int
	}
	targets := []cleanupTarget{
		{"parse_events", "created_at", cfg.ParseEventsDays},
		{"metrics_timeseries", "timestamp", cfg.MetricsDays},
	}

	for _, t := range targets {
		if t.days <= 0 {
			continue
		}
		if !allowedTables[t.table] || !allowedColumns[t.column] {
			return fmt.Errorf("cleanup: invalid table/column %s/%s", t.table, t.column)
		}
		cutoff := now - int64(t.days*86400)
		q := fmt.Sprintf("DELETE FROM %s WHERE %s < ?", t.table, t.column)
		if _, err := dbopen.Exec(ctx, db, q, cutoff); err != nil {
			return fmt.Errorf("cleanup %s: %w", t.table, err)
		}
	}

	if cfg.RunVacuumAfter {
		if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
			return fmt.Errorf("vacuum: %w", err)
		}
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
