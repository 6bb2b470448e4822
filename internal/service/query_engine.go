package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/internal/repository"
)

// TicketFilter is the set of predicates applied before sorting. Dimensions
// combine as a conjunction; values within a dimension combine as a union.
type TicketFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Categories  []domain.TicketCategory
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// SortField selects the comparator key.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByPriority  SortField = "priority"
	SortByStatus    SortField = "status"
	SortByTitle     SortField = "title"
)

// SortDirection orders results ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec pairs a field with a direction.
type SortSpec struct {
	Field     SortField
	Direction SortDirection
}

// TicketQuery is the full listing request.
type TicketQuery struct {
	Filter   TicketFilter
	Sort     SortSpec
	Page     int
	PageSize int
}

// QueryResult is one page of the filtered, sorted set.
type QueryResult struct {
	Items    []domain.Ticket
	Total    int
	Page     int
	PageSize int
	HasMore  bool
}

// QueryEngine composes filters, sorting and pagination over a repository
// snapshot. It never mutates the collection; the same query against an
// unchanged repository yields an identical result.
type QueryEngine struct {
	tickets repository.TicketRepository
}

// NewQueryEngine constructs the engine.
func NewQueryEngine(tickets repository.TicketRepository) *QueryEngine {
	return &QueryEngine{tickets: tickets}
}

// Query runs the listing request against the current snapshot.
func (e *QueryEngine) Query(ctx context.Context, q TicketQuery) (*QueryResult, error) {
	snapshot, err := e.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return RunQuery(snapshot, q), nil
}

// RunQuery is the pure core of the engine, operating on a snapshot.
func RunQuery(tickets []domain.Ticket, q TicketQuery) *QueryResult {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}

	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if matches(&ticket, q.Filter) {
			filtered = append(filtered, ticket)
		}
	}

	sortTickets(filtered, q.Sort)

	total := len(filtered)
	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &QueryResult{
		Items:    filtered[start:end],
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		HasMore:  end < total,
	}
}

func matches(t *domain.Ticket, f TicketFilter) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !containsPriority(f.Priorities, t.Priority) {
		return false
	}
	if len(f.Categories) > 0 && !containsCategory(f.Categories, t.Category) {
		return false
	}
	if f.CreatedFrom != nil && t.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && t.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		assignee := ""
		if t.AssigneeName != nil {
			assignee = *t.AssigneeName
		}
		haystack := strings.ToLower(t.Title) + "\x00" +
			strings.ToLower(t.Description) + "\x00" +
			strings.ToLower(t.ID) + "\x00" +
			strings.ToLower(assignee)
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	return true
}

// sortTickets orders by the requested field; equal keys fall back to id
// ascending so repeated queries are deterministic regardless of direction.
func sortTickets(tickets []domain.Ticket, spec SortSpec) {
	desc := spec.Direction == SortDesc
	sort.SliceStable(tickets, func(i, j int) bool {
		cmp := compareTickets(&tickets[i], &tickets[j], spec.Field)
		if cmp == 0 {
			return tickets[i].ID < tickets[j].ID
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareTickets(a, b *domain.Ticket, field SortField) int {
	switch field {
	case SortByUpdatedAt:
		return compareTimes(a.UpdatedAt, b.UpdatedAt)
	case SortByPriority:
		return a.Priority.Rank() - b.Priority.Rank()
	case SortByStatus:
		return a.Status.Rank() - b.Status.Rank()
	case SortByTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	default: // createdAt
		return compareTimes(a.CreatedAt, b.CreatedAt)
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func containsStatus(set []domain.TicketStatus, v domain.TicketStatus) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsPriority(set []domain.TicketPriority, v domain.TicketPriority) bool {
	for _, p := range set {
		if p == v {
			return true
		}
	}
	return false
}

func containsCategory(set []domain.TicketCategory, v domain.TicketCategory) bool {
	for _, c := range set {
		if c == v {
			return true
		}
	}
	return false
}
