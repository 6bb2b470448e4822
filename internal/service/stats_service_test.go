package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/internal/events"
	"github.com/studiokit/portal/internal/repository"
	"github.com/studiokit/portal/internal/storage"
)

func TestComputeStatsEmptyCollection(t *testing.T) {
	stats := ComputeStats(nil, time.Now())

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.RecentActivity)
	assert.Zero(t, stats.ResolvedCount)
	assert.Zero(t, stats.AvgResolution)

	// Every enum value is present even with nothing to count.
	assert.Len(t, stats.ByStatus, len(domain.Statuses()))
	assert.Len(t, stats.ByPriority, len(domain.Priorities()))
	assert.Len(t, stats.ByCategory, len(domain.Categories()))
	for _, status := range domain.Statuses() {
		count, ok := stats.ByStatus[status]
		assert.True(t, ok)
		assert.Zero(t, count)
	}
}

func TestComputeStatsCountsSumToTotal(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-72 * time.Hour)
	recent := now.Add(-1 * time.Hour)
	resolvedAt := old.Add(4 * time.Hour)

	tickets := []domain.Ticket{
		{ID: "TK-001", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh,
			Category: domain.CategoryNetworkIssues, CreatedAt: old, UpdatedAt: recent},
		{ID: "TK-002", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow,
			Category: domain.CategoryGeneralInquiry, CreatedAt: old, UpdatedAt: old},
		{ID: "TK-003", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityMedium,
			Category: domain.CategorySoftwareSupport, CreatedAt: old, UpdatedAt: recent,
			ResolvedAt: &resolvedAt},
		{ID: "TK-004", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityMedium,
			Category: domain.CategorySoftwareSupport, CreatedAt: old, UpdatedAt: old,
			ResolvedAt: &resolvedAt},
	}

	stats := ComputeStats(tickets, now)
	assert.Equal(t, 4, stats.Total)

	statusSum := 0
	for _, count := range stats.ByStatus {
		statusSum += count
	}
	prioritySum := 0
	for _, count := range stats.ByPriority {
		prioritySum += count
	}
	categorySum := 0
	for _, count := range stats.ByCategory {
		categorySum += count
	}
	assert.Equal(t, stats.Total, statusSum)
	assert.Equal(t, stats.Total, prioritySum)
	assert.Equal(t, stats.Total, categorySum)

	assert.Equal(t, 2, stats.ByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 2, stats.ByPriority[domain.TicketPriorityMedium])
	assert.Equal(t, 2, stats.ByCategory[domain.CategorySoftwareSupport])
}

func TestComputeStatsRecentActivityWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tickets := []domain.Ticket{
		{ID: "TK-001", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow,
			Category: domain.CategoryGeneralInquiry, UpdatedAt: now.Add(-23 * time.Hour)},
		{ID: "TK-002", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow,
			Category: domain.CategoryGeneralInquiry, UpdatedAt: now.Add(-25 * time.Hour)},
		{ID: "TK-003", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow,
			Category: domain.CategoryGeneralInquiry, UpdatedAt: now.Add(-time.Minute)},
	}

	stats := ComputeStats(tickets, now)
	assert.Equal(t, 2, stats.RecentActivity)
}

func TestComputeStatsAvgResolution(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	created := now.Add(-48 * time.Hour)
	twoHours := created.Add(2 * time.Hour)
	sixHours := created.Add(6 * time.Hour)

	tickets := []domain.Ticket{
		{ID: "TK-001", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityLow,
			Category: domain.CategoryGeneralInquiry, CreatedAt: created, UpdatedAt: created,
			ResolvedAt: &twoHours},
		{ID: "TK-002", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityLow,
			Category: domain.CategoryGeneralInquiry, CreatedAt: created, UpdatedAt: created,
			ResolvedAt: &sixHours},
		{ID: "TK-003", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow,
			Category: domain.CategoryGeneralInquiry, CreatedAt: created, UpdatedAt: created},
	}

	stats := ComputeStats(tickets, now)
	assert.Equal(t, 2, stats.ResolvedCount)
	assert.Equal(t, 4*time.Hour, stats.AvgResolution)
}

func TestStatsSnapshotReflectsRepository(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewStatsService(repo)
	tickets := NewTicketService(TicketDependencies{
		TicketRepo: repo,
		BlobStore:  storage.NewMemoryBlobStore(),
		Policy:     DefaultAttachmentPolicy(),
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	ctx := context.Background()

	created, err := tickets.CreateTicket(ctx, customerActor(), validCreateInput())
	require.NoError(t, err)

	stats, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 1, stats.RecentActivity)

	_, err = tickets.Transition(ctx, supportActor(), created.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	stats, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ByStatus[domain.TicketStatusResolved])
	assert.Equal(t, 0, stats.ByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 1, stats.ResolvedCount)
}
