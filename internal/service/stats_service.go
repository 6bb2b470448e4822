package service

import (
	"context"
	"time"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/internal/repository"
)

// recentActivityWindow is the trailing window for the liveness signal.
const recentActivityWindow = 24 * time.Hour

// StatsService derives live statistics from the repository snapshot on every
// call. Nothing is cached, so the view cannot drift from the true state.
type StatsService struct {
	tickets repository.TicketRepository
}

// NewStatsService constructs the service.
func NewStatsService(tickets repository.TicketRepository) *StatsService {
	return &StatsService{tickets: tickets}
}

// Snapshot computes statistics over the full ticket collection.
func (s *StatsService) Snapshot(ctx context.Context) (*domain.TicketStats, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(tickets, time.Now())
	return &stats, nil
}

// ComputeStats is the pure aggregation over a snapshot. Every enum value is
// present in the count maps so that map sums always equal the total.
func ComputeStats(tickets []domain.Ticket, now time.Time) domain.TicketStats {
	stats := domain.TicketStats{
		Total:      len(tickets),
		ByStatus:   make(map[domain.TicketStatus]int, len(domain.Statuses())),
		ByPriority: make(map[domain.TicketPriority]int, len(domain.Priorities())),
		ByCategory: make(map[domain.TicketCategory]int, len(domain.Categories())),
	}
	for _, status := range domain.Statuses() {
		stats.ByStatus[status] = 0
	}
	for _, priority := range domain.Priorities() {
		stats.ByPriority[priority] = 0
	}
	for _, category := range domain.Categories() {
		stats.ByCategory[category] = 0
	}

	cutoff := now.Add(-recentActivityWindow)
	var totalResolution time.Duration
	for i := range tickets {
		t := &tickets[i]
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
		stats.ByCategory[t.Category]++
		if t.UpdatedAt.After(cutoff) {
			stats.RecentActivity++
		}
		if t.ResolvedAt != nil {
			stats.ResolvedCount++
			totalResolution += t.ResolvedAt.Sub(t.CreatedAt)
		}
	}
	if stats.ResolvedCount > 0 {
		stats.AvgResolution = totalResolution / time.Duration(stats.ResolvedCount)
	}
	return stats
}
