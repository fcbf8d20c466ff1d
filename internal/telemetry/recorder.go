package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Recorder persists one session's worth of Eval and Attempt rows. The
// zero value is a no-op recorder: every method is safe to call on a nil
// *Recorder, so callers don't need to branch on whether telemetry is
// configured.
type Recorder struct {
	db        *gorm.DB
	sessionID string
}

// Open connects to the SQLite database at dsn, running migrations and
// starting a new Session row. An empty dsn returns a nil *Recorder,
// which every method below treats as "do nothing".
func Open(dsn string, debug bool) (*Recorder, error) {
	if dsn == "" {
		return nil, nil
	}

	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("telemetry: create database directory: %w", err)
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: connect: %w", err)
	}

	if err := db.AutoMigrate(&Session{}, &Eval{}, &Attempt{}); err != nil {
		return nil, fmt.Errorf("telemetry: migrate: %w", err)
	}

	session := &Session{ID: uuid.NewString()}
	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("telemetry: open session: %w", err)
	}

	return &Recorder{db: db, sessionID: session.ID}, nil
}

// WithConfigSummary sets the opened session's ConfigSummary column, for
// later correlating a recorded run with the flags/env it ran under.
func (r *Recorder) WithConfigSummary(summary string) *Recorder {
	if r == nil {
		return nil
	}
	r.db.Model(&Session{}).Where("id = ?", r.sessionID).Update("config_summary", summary)
	return r
}

// RecordEval inserts one completed top-level evaluation and bumps the
// session's running eval count.
func (r *Recorder) RecordEval(input, result string, depth int, hadErrors bool, errorCodes []string, duration time.Duration) {
	if r == nil {
		return
	}
	codes, _ := datatypes.NewJSONType(errorCodes).MarshalJSON()
	r.db.Create(&Eval{
		ID:         uuid.NewString(),
		SessionID:  r.sessionID,
		Input:      input,
		Result:     result,
		Depth:      depth,
		HadErrors:  hadErrors,
		ErrorCodes: datatypes.JSON(codes),
		Duration:   duration,
	})
	r.db.Model(&Session{}).Where("id = ?", r.sessionID).
		UpdateColumn("eval_count", gorm.Expr("eval_count + 1"))
}

// RecordAttempt inserts one rewrite-candidate trial and bumps the
// session's running attempt count. bindings maps bound names to their
// rendered values; pass nil for a candidate that failed before BIND
// produced any bindings.
func (r *Recorder) RecordAttempt(callSite, pattern, outcome, diagnostic string, bindings map[string]string) {
	if r == nil {
		return
	}
	encoded, _ := datatypes.NewJSONType(bindings).MarshalJSON()
	r.db.Create(&Attempt{
		ID:         uuid.NewString(),
		SessionID:  r.sessionID,
		CallSite:   callSite,
		Pattern:    pattern,
		Outcome:    outcome,
		Diagnostic: diagnostic,
		Bindings:   datatypes.JSON(encoded),
	})
	r.db.Model(&Session{}).Where("id = ?", r.sessionID).
		UpdateColumn("attempt_count", gorm.Expr("attempt_count + 1"))
}

// Close stamps the session's EndedAt and releases the underlying
// connection. Safe to call on a nil *Recorder.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	now := time.Now()
	r.db.Model(&Session{}).Where("id = ?", r.sessionID).Update("ended_at", now)

	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
