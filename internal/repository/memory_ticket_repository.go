package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/pkg/util"
)

// memoryTicketRepository is the canonical in-memory store. Each ticket is an
// independently lockable unit: the outer lock only guards the map structure
// and id assignment, never a mutation body.
type memoryTicketRepository struct {
	mu      sync.RWMutex
	seq     int
	entries map[string]*ticketEntry
	now     func() time.Time
}

type ticketEntry struct {
	mu     sync.Mutex
	ticket *domain.Ticket
}

// NewMemoryTicketRepository builds an empty in-memory repository.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{
		entries: make(map[string]*ticketEntry),
		now:     time.Now,
	}
}

func (r *memoryTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	now := r.now()
	ticket.ID = fmt.Sprintf("TK-%03d", r.seq)
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	if ticket.Comments == nil {
		ticket.Comments = []domain.Comment{}
	}
	if ticket.Attachments == nil {
		ticket.Attachments = []domain.Attachment{}
	}
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	r.entries[ticket.ID] = &ticketEntry{ticket: ticket.Clone()}
	return nil
}

func (r *memoryTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.ticket.Clone(), nil
}

func (r *memoryTicketRepository) Update(ctx context.Context, id string, mutate func(*domain.Ticket) error) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.ticket.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	if now := r.now(); now.After(working.UpdatedAt) {
		working.UpdatedAt = now
	}
	entry.ticket = working
	return working.Clone(), nil
}

func (r *memoryTicketRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return util.NewNotFound("ticket", map[string]any{"id": id})
	}
	delete(r.entries, id)
	return nil
}

func (r *memoryTicketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	entries := make([]*ticketEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	snapshot := make([]domain.Ticket, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		snapshot = append(snapshot, *entry.ticket.Clone())
		entry.mu.Unlock()
	}
	return snapshot, nil
}

func (r *memoryTicketRepository) lookup(id string) (*ticketEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	return entry, nil
}
