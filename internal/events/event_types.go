package events

import (
	"time"

	"github.com/studiokit/portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated           EventType = "ticket_created"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventTicketUpdated           EventType = "ticket_updated"
	EventTicketDeleted           EventType = "ticket_deleted"
	EventTicketCommentAdded      EventType = "ticket_comment_added"
	EventTicketAttachmentAdded   EventType = "ticket_attachment_added"
	EventTicketAttachmentDeleted EventType = "ticket_attachment_deleted"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	Category domain.TicketCategory `json:"category"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Action    string              `json:"action"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID   string                   `json:"comment_id"`
	AuthorRole  domain.CommentAuthorRole `json:"author_role"`
	Internal    bool                     `json:"internal"`
	Attachments int                      `json:"attachments"`
}

// TicketAttachmentPayload payload for attachment add/delete.
type TicketAttachmentPayload struct {
	AttachmentID string `json:"attachment_id"`
	FileName     string `json:"file_name"`
	SizeBytes    int64  `json:"size_bytes"`
}
