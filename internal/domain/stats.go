package domain

import "time"

// TicketStats is a derived view over the full ticket collection. It is always
// recomputed from a repository snapshot, never stored and incrementally
// updated, so it cannot drift from the true state.
type TicketStats struct {
	Total          int
	ByStatus       map[TicketStatus]int
	ByPriority     map[TicketPriority]int
	ByCategory     map[TicketCategory]int
	RecentActivity int
	AvgResolution  time.Duration
	ResolvedCount  int
}
