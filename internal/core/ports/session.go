package ports

import (
	"context"

	"github.com/melih/lighthouse-expose/internal/core/domain"
)

// SessionService is what a presentation layer drives: start a session,
// run it, clean it up, and read its state.
type SessionService interface {
	Begin(localURL string) (domain.Session, error)
	Run(ctx context.Context) error
	Cleanup(ctx context.Context) error
	Snapshot() (domain.Session, bool)
}
