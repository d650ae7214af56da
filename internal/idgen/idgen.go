// Package idgen produces time-ordered identifiers for change-history rows.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator generates unique identifiers. Implementations are safe for
// concurrent use.
type Generator interface {
	Generate() (uuid.UUID, error)
}

type v7Gen struct {
	attempts int
}

type Option func(*v7Gen)

// WithRetries sets how many extra attempts follow a failed uuid.NewV7.
// Defaults to 1; 0 disables retries.
func WithRetries(n int) Option {
	return func(g *v7Gen) {
		if n >= 0 {
			g.attempts = n + 1
		}
	}
}

// NewV7 returns a Generator of UUID v7 values. Ids from one process sort in
// creation order, which the history listing relies on as a tie-breaker.
func NewV7(opts ...Option) Generator {
	g := &v7Gen{attempts: 2}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *v7Gen) Generate() (uuid.UUID, error) {
	var last error
	for range g.attempts {
		id, err := uuid.NewV7()
		if err == nil {
			return id, nil
		}
		last = err
	}
	return uuid.Nil, fmt.Errorf("idgen: uuid v7 failed after %d attempts: %w", g.attempts, last)
}
