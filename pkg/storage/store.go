package storage

import (
	"context"
	"time"
)

// Action tags for recorded repository events.
const (
	ActionPush        = "push"
	ActionPullRequest = "pull_request"
	ActionMerge       = "merge"
)

// EventRecord is the uniform representation of one recognized repository
// event. FromBranch is nil exactly when Action is ActionPush.
type EventRecord struct {
	ID         uint64
	Action     string
	Author     string
	FromBranch *string
	ToBranch   string
	RequestID  string
	Timestamp  time.Time
}

// EventStore defines persistence for event records. Records are
// append-only; there are no update or delete operations.
type EventStore interface {
	// Insert appends a record and returns the assigned identifier.
	Insert(ctx context.Context, record EventRecord) (uint64, error)
	// Recent returns up to limit records, most recent timestamp first.
	Recent(ctx context.Context, limit int) ([]EventRecord, error)
	Close() error
}
