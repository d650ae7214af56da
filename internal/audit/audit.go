// Package audit keeps a history of catalog changes. Every request that
// reaches a publisher produces one Entry, whatever the outcome.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome summarizes how far a publish got.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomePending   Outcome = "pending" // deploy created but not ready before the poll deadline
	OutcomePartial   Outcome = "partial" // catalog committed, build not triggered
	OutcomeFailed    Outcome = "failed"
)

// Entry is one recorded catalog change.
type Entry struct {
	ID              uuid.UUID `json:"id"`
	RequestID       string    `json:"request_id,omitempty"`
	Workflow        string    `json:"workflow"`
	Action          string    `json:"action"`
	Category        string    `json:"category"`
	Brand           string    `json:"brand"`
	URL             string    `json:"url,omitempty"`
	PreviousVersion string    `json:"previous_version,omitempty"`
	Version         string    `json:"version,omitempty"`
	DeployID        string    `json:"deploy_id,omitempty"`
	Outcome         Outcome   `json:"outcome"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Recorder appends entries to the history. The stored entry, with its ID
// and timestamp filled in, is returned.
type Recorder interface {
	Record(ctx context.Context, e Entry) (Entry, error)
}

// Lister returns the most recent entries, newest first.
type Lister interface {
	List(ctx context.Context, limit int) ([]Entry, error)
}

// Store is a history backend.
type Store interface {
	Recorder
	Lister
	Close() error
}

// Nop discards entries. It is used when the history is disabled.
type Nop struct{}

func (Nop) Record(_ context.Context, e Entry) (Entry, error) { return e, nil }

func (Nop) List(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

func (Nop) Close() error { return nil }
