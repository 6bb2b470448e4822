package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokit/portal/internal/domain"
)

func queryFixtureTickets() []domain.Ticket {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	assignee := "Studio Support"
	return []domain.Ticket{
		{
			ID: "TK-001", Title: "VPN keeps dropping", Description: "hourly disconnects",
			Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh,
			Category: domain.CategoryNetworkIssues,
			CreatedAt: base, UpdatedAt: base,
		},
		{
			ID: "TK-002", Title: "Invoice export broken", Description: "CSV download fails",
			Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityMedium,
			Category: domain.CategorySoftwareSupport, AssigneeName: &assignee,
			CreatedAt: base.Add(1 * time.Hour), UpdatedAt: base.Add(3 * time.Hour),
		},
		{
			ID: "TK-003", Title: "Laptop fan noise", Description: "grinding sound under load",
			Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityLow,
			Category: domain.CategoryHardwareProblems,
			CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour),
		},
		{
			ID: "TK-004", Title: "Suspicious login alert", Description: "unknown IP in audit log",
			Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityCritical,
			Category: domain.CategorySecurityConcerns,
			CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour),
		},
		{
			ID: "TK-005", Title: "VPN config question", Description: "how to add a new device",
			Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityLow,
			Category: domain.CategoryNetworkIssues,
			CreatedAt: base.Add(4 * time.Hour), UpdatedAt: base.Add(4 * time.Hour),
		},
	}
}

func resultIDs(result *QueryResult) []string {
	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestQueryNoFilterReturnsAll(t *testing.T) {
	result := RunQuery(queryFixtureTickets(), TicketQuery{})
	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Items, 5)
	assert.False(t, result.HasMore)
}

func TestQueryFilterValuesUnionWithinDimension(t *testing.T) {
	result := RunQuery(queryFixtureTickets(), TicketQuery{
		Filter: TicketFilter{
			Statuses: []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusClosed},
		},
	})
	assert.ElementsMatch(t, []string{"TK-001", "TK-004", "TK-005"}, resultIDs(result))
}

func TestQueryDimensionsIntersect(t *testing.T) {
	result := RunQuery(queryFixtureTickets(), TicketQuery{
		Filter: TicketFilter{
			Statuses:   []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusClosed},
			Categories: []domain.TicketCategory{domain.CategoryNetworkIssues},
		},
	})
	assert.ElementsMatch(t, []string{"TK-001", "TK-005"}, resultIDs(result))
}

func TestQuerySearchIsCaseInsensitive(t *testing.T) {
	tickets := queryFixtureTickets()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"title match", "vpn", []string{"TK-001", "TK-005"}},
		{"mixed case", "VpN", []string{"TK-001", "TK-005"}},
		{"description match", "audit log", []string{"TK-004"}},
		{"id match", "tk-003", []string{"TK-003"}},
		{"assignee match", "studio support", []string{"TK-002"}},
		{"no match", "billing portal", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RunQuery(tickets, TicketQuery{Filter: TicketFilter{Search: tt.search}})
			assert.ElementsMatch(t, tt.want, resultIDs(result))
		})
	}
}

func TestQueryCreatedRangeIsInclusive(t *testing.T) {
	tickets := queryFixtureTickets()
	from := tickets[1].CreatedAt
	to := tickets[3].CreatedAt

	result := RunQuery(tickets, TicketQuery{
		Filter: TicketFilter{CreatedFrom: &from, CreatedTo: &to},
	})
	assert.ElementsMatch(t, []string{"TK-002", "TK-003", "TK-004"}, resultIDs(result))
}

func TestQuerySortByPriorityRank(t *testing.T) {
	result := RunQuery(queryFixtureTickets(), TicketQuery{
		Sort: SortSpec{Field: SortByPriority, Direction: SortDesc},
	})
	// critical, high, medium, then the two lows in id order.
	assert.Equal(t, []string{"TK-004", "TK-001", "TK-002", "TK-003", "TK-005"}, resultIDs(result))
}

func TestQueryTieBreakIsIDAscendingBothDirections(t *testing.T) {
	asc := RunQuery(queryFixtureTickets(), TicketQuery{
		Sort: SortSpec{Field: SortByPriority, Direction: SortAsc},
	})
	assert.Equal(t, []string{"TK-003", "TK-005", "TK-002", "TK-001", "TK-004"}, resultIDs(asc))

	desc := RunQuery(queryFixtureTickets(), TicketQuery{
		Sort: SortSpec{Field: SortByPriority, Direction: SortDesc},
	})
	// The two low-priority tickets stay in id-ascending order even descending.
	ids := resultIDs(desc)
	assert.Equal(t, []string{"TK-003", "TK-005"}, ids[3:])
}

func TestQuerySortByStatusLifecycleOrder(t *testing.T) {
	result := RunQuery(queryFixtureTickets(), TicketQuery{
		Sort: SortSpec{Field: SortByStatus, Direction: SortAsc},
	})
	assert.Equal(t, []string{"TK-001", "TK-004", "TK-002", "TK-003", "TK-005"}, resultIDs(result))
}

func TestQuerySortByUpdatedAt(t *testing.T) {
	result := RunQuery(queryFixtureTickets(), TicketQuery{
		Sort: SortSpec{Field: SortByUpdatedAt, Direction: SortDesc},
	})
	// TK-002 and TK-004 share an UpdatedAt; id ascending breaks the tie.
	assert.Equal(t, []string{"TK-005", "TK-002", "TK-004", "TK-003", "TK-001"}, resultIDs(result))
}

func TestQueryPaginationCoversEveryTicketOnce(t *testing.T) {
	tickets := queryFixtureTickets()
	seen := map[string]int{}

	page := 1
	for {
		result := RunQuery(tickets, TicketQuery{
			Sort:     SortSpec{Field: SortByCreatedAt, Direction: SortAsc},
			Page:     page,
			PageSize: 2,
		})
		assert.Equal(t, 5, result.Total)
		for _, item := range result.Items {
			seen[item.ID]++
		}
		if !result.HasMore {
			break
		}
		page++
	}

	assert.Equal(t, 3, page)
	assert.Len(t, seen, 5)
	for id, count := range seen {
		assert.Equal(t, 1, count, "ticket %s appeared %d times", id, count)
	}
}

func TestQueryPageBeyondEnd(t *testing.T) {
	result := RunQuery(queryFixtureTickets(), TicketQuery{Page: 9, PageSize: 10})
	assert.Empty(t, result.Items)
	assert.Equal(t, 5, result.Total)
	assert.False(t, result.HasMore)
}

func TestQueryDefaultsPageAndSize(t *testing.T) {
	result := RunQuery(queryFixtureTickets(), TicketQuery{Page: -3, PageSize: 0})
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)
	assert.Len(t, result.Items, 5)
}

func TestQueryIsIdempotent(t *testing.T) {
	tickets := queryFixtureTickets()
	q := TicketQuery{
		Filter: TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusOpen}},
		Sort:   SortSpec{Field: SortByPriority, Direction: SortDesc},
	}

	first := RunQuery(tickets, q)
	second := RunQuery(tickets, q)
	require.Equal(t, resultIDs(first), resultIDs(second))
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	tickets := queryFixtureTickets()
	original := make([]string, len(tickets))
	for i, ticket := range tickets {
		original[i] = ticket.ID
	}

	RunQuery(tickets, TicketQuery{Sort: SortSpec{Field: SortByPriority, Direction: SortDesc}})

	for i, ticket := range tickets {
		assert.Equal(t, original[i], ticket.ID)
	}
}
