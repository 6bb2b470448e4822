package domain

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen               TicketStatus = "open"
	TicketStatusInProgress         TicketStatus = "in_progress"
	TicketStatusWaitingForCustomer TicketStatus = "waiting_for_customer"
	TicketStatusResolved           TicketStatus = "resolved"
	TicketStatusClosed             TicketStatus = "closed"
)

// Statuses lists all statuses in lifecycle order.
func Statuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusOpen,
		TicketStatusInProgress,
		TicketStatusWaitingForCustomer,
		TicketStatusResolved,
		TicketStatusClosed,
	}
}

// Rank returns the lifecycle order used for sorting.
func (s TicketStatus) Rank() int {
	switch s {
	case TicketStatusOpen:
		return 1
	case TicketStatusInProgress:
		return 2
	case TicketStatusWaitingForCustomer:
		return 3
	case TicketStatusResolved:
		return 4
	case TicketStatusClosed:
		return 5
	}
	return 0
}

// Valid reports whether the status is a known value.
func (s TicketStatus) Valid() bool {
	return s.Rank() > 0
}

// StatusTransition is a directed edge in the ticket lifecycle graph together
// with the action label offered to the caller.
type StatusTransition struct {
	To     TicketStatus
	Action string
}

// statusTransitions is the single source of truth for the lifecycle graph.
// Any state not listed as a target here is unreachable from the source state.
var statusTransitions = map[TicketStatus][]StatusTransition{
	TicketStatusOpen: {
		{To: TicketStatusInProgress, Action: "Mark In Progress"},
		{To: TicketStatusResolved, Action: "Mark Resolved"},
	},
	TicketStatusInProgress: {
		{To: TicketStatusResolved, Action: "Mark Resolved"},
		{To: TicketStatusWaitingForCustomer, Action: "Waiting for Customer"},
	},
	TicketStatusWaitingForCustomer: {
		{To: TicketStatusInProgress, Action: "Resume Progress"},
		{To: TicketStatusResolved, Action: "Mark Resolved"},
	},
	TicketStatusResolved: {
		{To: TicketStatusClosed, Action: "Close Ticket"},
		{To: TicketStatusOpen, Action: "Reopen"},
	},
	TicketStatusClosed: {
		{To: TicketStatusOpen, Action: "Reopen"},
	},
}

// TransitionsFrom returns the outgoing edges of the given state. The result is
// a copy; callers may not grow the table through it.
func TransitionsFrom(current TicketStatus) []StatusTransition {
	return append([]StatusTransition(nil), statusTransitions[current]...)
}

// CanTransition reports whether current -> next is a legal edge.
func CanTransition(current, next TicketStatus) bool {
	for _, edge := range statusTransitions[current] {
		if edge.To == next {
			return true
		}
	}
	return false
}

// TransitionTargets returns the legal target statuses for the given state.
func TransitionTargets(current TicketStatus) []TicketStatus {
	edges := statusTransitions[current]
	targets := make([]TicketStatus, 0, len(edges))
	for _, edge := range edges {
		targets = append(targets, edge.To)
	}
	return targets
}
