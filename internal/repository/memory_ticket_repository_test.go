package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/pkg/util"
)

func newTicket(title string) *domain.Ticket {
	return &domain.Ticket{
		Title:       title,
		Description: "something broke and needs a look",
		Priority:    domain.TicketPriorityMedium,
		Category:    domain.CategoryGeneralInquiry,
		UserID:      "user-1",
	}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		ticket := newTicket(fmt.Sprintf("ticket number %d", i))
		require.NoError(t, repo.Create(ctx, ticket))
		assert.Equal(t, fmt.Sprintf("TK-%03d", i), ticket.ID)
	}
}

func TestCreateInitializesDefaults(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := newTicket("printer is on fire")
	require.NoError(t, repo.Create(ctx, ticket))

	stored, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status)
	assert.NotNil(t, stored.Comments)
	assert.NotNil(t, stored.Attachments)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
}

func TestGetByIDReturnsIsolatedCopy(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := newTicket("flaky wifi in the office")
	ticket.Tags = []string{"network"}
	require.NoError(t, repo.Create(ctx, ticket))

	first, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	first.Title = "mutated"
	first.Tags[0] = "mutated"
	first.Comments = append(first.Comments, domain.Comment{ID: "c1"})

	second, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "flaky wifi in the office", second.Title)
	assert.Equal(t, []string{"network"}, second.Tags)
	assert.Empty(t, second.Comments)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewMemoryTicketRepository()

	_, err := repo.GetByID(context.Background(), "TK-999")
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
}

func TestUpdateAdvancesUpdatedAt(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := newTicket("slow database queries")
	require.NoError(t, repo.Create(ctx, ticket))
	created := ticket.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	updated, err := repo.Update(ctx, ticket.ID, func(t *domain.Ticket) error {
		t.Priority = domain.TicketPriorityHigh
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created))
	assert.Equal(t, created, updated.CreatedAt)
}

func TestUpdateFailureLeavesTicketUntouched(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := newTicket("monitor shows wrong colors")
	require.NoError(t, repo.Create(ctx, ticket))
	before, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)

	_, err = repo.Update(ctx, ticket.ID, func(t *domain.Ticket) error {
		t.Title = "half-applied"
		return util.NewValidationError("rejected", nil)
	})
	require.Error(t, err)

	after, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := newTicket("comment thread stress test")
	require.NoError(t, repo.Create(ctx, ticket))

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := repo.Update(ctx, ticket.ID, func(t *domain.Ticket) error {
				t.Comments = append(t.Comments, domain.Comment{
					ID:   fmt.Sprintf("c-%d", n),
					Body: "concurrent comment",
				})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Comments, workers)

	seen := make(map[string]bool, workers)
	for _, comment := range stored.Comments {
		assert.False(t, seen[comment.ID], "comment %s appended twice", comment.ID)
		seen[comment.ID] = true
	}
}

func TestListAllSnapshotIsolation(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newTicket(fmt.Sprintf("ticket snapshot %d", i))))
	}

	snapshot, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 3)

	snapshot[0].Title = "mutated snapshot"
	stored, err := repo.GetByID(ctx, snapshot[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated snapshot", stored.Title)
}

func TestDeleteRemovesTicket(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := newTicket("ticket to be deleted")
	require.NoError(t, repo.Create(ctx, ticket))
	require.NoError(t, repo.Delete(ctx, ticket.ID))

	_, err := repo.GetByID(ctx, ticket.ID)
	assert.True(t, util.IsCode(err, "NOT_FOUND"))

	err = repo.Delete(ctx, ticket.ID)
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
}

func TestDeleteDoesNotReuseIDs(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	first := newTicket("first ticket here")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Delete(ctx, first.ID))

	second := newTicket("second ticket here")
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "TK-002", second.ID)
}

func TestRepositoryHonorsContextCancellation(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Create(ctx, newTicket("never stored anywhere"))
	assert.Error(t, err)

	_, err = repo.ListAll(ctx)
	assert.Error(t, err)
}
