// Package telemetry is the optional session recorder: when a DSN is
// configured it persists one row per evaluation run and one row per
// rewrite-candidate attempt to a SQLite database, for later inspection
// of why a particular expression reduced the way it did. With no DSN
// configured, every call in this package is a no-op.
//
// Grounded on models/models.go's Stage/Apply/Session GORM models and
// db/sqlite.go's Connect/Migrate wiring, adapted from "pending code
// transformation committed by a human reviewer" to "rewrite candidate
// tried during one Evaluate call".
package telemetry

import (
	"time"

	"gorm.io/datatypes"
)

// Attempt records one candidate tried against one call site during an
// Evaluate run: which step it reached (BIND, CHECK, BODY) before either
// succeeding or being discarded, mirroring Stage's one-row-per-operation
// shape.
type Attempt struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	SessionID string `gorm:"type:varchar(36);index"`

	CallSite   string `gorm:"type:text;not null"` // rendered call-site tree
	Pattern    string `gorm:"type:text;not null"` // rendered candidate pattern
	Outcome    string `gorm:"type:varchar(20);not null"` // bound, kind_failed, guard_failed, type_mismatch, matched
	Diagnostic string `gorm:"type:text"`                 // rendered diagnostic message, if any

	Bindings datatypes.JSON `gorm:"type:jsonb"` // name -> rendered value, for a matched candidate

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Eval records one top-level Evaluate call: the expression evaluated,
// the resulting tree, and whether any diagnostics were raised along the
// way. Mirrors Apply's checksum-and-outcome shape, generalized from
// "committed file edit" to "completed reduction".
type Eval struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	SessionID string `gorm:"type:varchar(36);index"`

	Input  string `gorm:"type:text;not null"`
	Result string `gorm:"type:text;not null"`

	Depth      int  `gorm:"default:0"` // max recursion depth reached
	HadErrors  bool `gorm:"default:false"`
	ErrorCodes datatypes.JSON `gorm:"type:jsonb"`

	Duration  time.Duration `gorm:"type:bigint"` // nanoseconds
	CreatedAt time.Time     `gorm:"autoCreateTime"`
}

// Session tracks one process invocation's worth of evaluations:
// started when a recorder is opened, ended when it is closed.
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	StartedAt time.Time `gorm:"autoCreateTime"`
	EndedAt   *time.Time

	EvalCount    int `gorm:"default:0"`
	AttemptCount int `gorm:"default:0"`

	ConfigSummary string `gorm:"type:text"` // e.g. "max-depth=4096 log-level=info"
}

func (Attempt) TableName() string { return "attempts" }
func (Eval) TableName() string    { return "evals" }
func (Session) TableName() string { return "sessions" }
