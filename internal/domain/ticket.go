package domain

import "time"

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// Priorities lists all priorities in ascending severity order.
func Priorities() []TicketPriority {
	return []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical}
}

// Rank returns the severity order used for sorting. Unknown values rank lowest.
func (p TicketPriority) Rank() int {
	switch p {
	case TicketPriorityLow:
		return 1
	case TicketPriorityMedium:
		return 2
	case TicketPriorityHigh:
		return 3
	case TicketPriorityCritical:
		return 4
	}
	return 0
}

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	return p.Rank() > 0
}

// TicketCategory is the closed set of request categories.
type TicketCategory string

const (
	CategoryNetworkIssues    TicketCategory = "network_issues"
	CategorySoftwareSupport  TicketCategory = "software_support"
	CategoryHardwareProblems TicketCategory = "hardware_problems"
	CategorySecurityConcerns TicketCategory = "security_concerns"
	CategoryEmergencySupport TicketCategory = "emergency_support"
	CategoryGeneralInquiry   TicketCategory = "general_inquiry"
)

var categoryLabels = map[TicketCategory]string{
	CategoryNetworkIssues:    "Network Issues",
	CategorySoftwareSupport:  "Software Support",
	CategoryHardwareProblems: "Hardware Problems",
	CategorySecurityConcerns: "Security Concerns",
	CategoryEmergencySupport: "Emergency Support",
	CategoryGeneralInquiry:   "General Inquiry",
}

// Categories lists all categories in display order.
func Categories() []TicketCategory {
	return []TicketCategory{
		CategoryNetworkIssues,
		CategorySoftwareSupport,
		CategoryHardwareProblems,
		CategorySecurityConcerns,
		CategoryEmergencySupport,
		CategoryGeneralInquiry,
	}
}

// Label returns the display label for the category.
func (c TicketCategory) Label() string {
	return categoryLabels[c]
}

// Valid reports whether the category is a known value.
func (c TicketCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Ticket is the aggregate for support requests. Comments and attachments are
// owned by the ticket; all mutation goes through the repository so per-ticket
// ordering guarantees hold.
type Ticket struct {
	ID                  string
	Title               string
	Description         string
	Status              TicketStatus
	Priority            TicketPriority
	Category            TicketCategory
	UserID              string
	AssigneeID          *string
	AssigneeName        *string
	Tags                []string
	Comments            []Comment
	Attachments         []Attachment
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ResolvedAt          *time.Time
	ClosedAt            *time.Time
	EstimatedResolution *time.Duration
	ActualResolution    *time.Duration
}

// Clone returns a deep copy so repository snapshots never alias stored state.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	copied := *t
	copied.AssigneeID = clonePtr(t.AssigneeID)
	copied.AssigneeName = clonePtr(t.AssigneeName)
	copied.ResolvedAt = clonePtr(t.ResolvedAt)
	copied.ClosedAt = clonePtr(t.ClosedAt)
	copied.EstimatedResolution = clonePtr(t.EstimatedResolution)
	copied.ActualResolution = clonePtr(t.ActualResolution)
	copied.Tags = append([]string(nil), t.Tags...)
	copied.Attachments = append([]Attachment(nil), t.Attachments...)
	copied.Comments = make([]Comment, len(t.Comments))
	for i := range t.Comments {
		copied.Comments[i] = t.Comments[i]
		copied.Comments[i].Attachments = append([]Attachment(nil), t.Comments[i].Attachments...)
	}
	return &copied
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
