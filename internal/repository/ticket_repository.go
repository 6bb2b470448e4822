package repository

import (
	"context"

	"github.com/studiokit/portal/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Implementations must
// serialize mutations to the same ticket in submission order while letting
// mutations to different tickets proceed in parallel. Reads return copies;
// callers never observe shared mutable state.
type TicketRepository interface {
	// Create assigns the next sequential id, stamps timestamps and stores the
	// ticket. The passed struct is filled in with the assigned identity.
	Create(ctx context.Context, ticket *domain.Ticket) error

	// GetByID returns a copy of the ticket or NotFound.
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)

	// Update applies mutate to the ticket under its lock. When mutate returns
	// an error the ticket is left untouched; otherwise UpdatedAt is refreshed
	// (never moved backward) and the new state is returned.
	Update(ctx context.Context, id string, mutate func(*domain.Ticket) error) (*domain.Ticket, error)

	// Delete removes the ticket or returns NotFound.
	Delete(ctx context.Context, id string) error

	// ListAll returns a consistent snapshot of the full collection.
	ListAll(ctx context.Context) ([]domain.Ticket, error)
}

// UserRepository stores portal accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
