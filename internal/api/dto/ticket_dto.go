package dto

import (
	"time"

	"github.com/studiokit/portal/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	Tags        []string              `json:"tags"`
	Attachments []AttachmentRequest   `json:"attachments"`
}

// UpdateTicketRequest carries optional field updates.
type UpdateTicketRequest struct {
	Title               *string                `json:"title"`
	Description         *string                `json:"description"`
	Priority            *domain.TicketPriority `json:"priority"`
	Category            *domain.TicketCategory `json:"category"`
	AssigneeID          *string                `json:"assignee_id"`
	AssigneeName        *string                `json:"assignee_name"`
	Tags                *[]string              `json:"tags"`
	EstimatedResolution *int64                 `json:"estimated_resolution_seconds"`
}

// TransitionRequest payload.
type TransitionRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body        string              `json:"body"`
	Internal    bool                `json:"internal"`
	Attachments []AttachmentRequest `json:"attachments"`
}

// AttachmentRequest describes an upload. Content is base64 in transit.
type AttachmentRequest struct {
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Content   []byte `json:"content"`
}

// TicketSummary response.
type TicketSummary struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	Category      domain.TicketCategory `json:"category"`
	CategoryLabel string                `json:"category_label"`
	AssigneeName  *string               `json:"assignee_name"`
	Tags          []string              `json:"tags"`
	CommentCount  int                   `json:"comment_count"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID                  string                `json:"id"`
	Title               string                `json:"title"`
	Description         string                `json:"description"`
	Status              domain.TicketStatus   `json:"status"`
	Priority            domain.TicketPriority `json:"priority"`
	Category            domain.TicketCategory `json:"category"`
	CategoryLabel       string                `json:"category_label"`
	UserID              string                `json:"user_id"`
	AssigneeID          *string               `json:"assignee_id"`
	AssigneeName        *string               `json:"assignee_name"`
	Tags                []string              `json:"tags"`
	Comments            []CommentResponse     `json:"comments"`
	Attachments         []AttachmentResponse  `json:"attachments"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	ResolvedAt          *time.Time            `json:"resolved_at"`
	ClosedAt            *time.Time            `json:"closed_at"`
	EstimatedResolution *int64                `json:"estimated_resolution_seconds"`
	ActualResolution    *int64                `json:"actual_resolution_seconds"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID          string                   `json:"id"`
	AuthorID    string                   `json:"author_id"`
	AuthorName  string                   `json:"author_name"`
	AuthorRole  domain.CommentAuthorRole `json:"author_role"`
	Body        string                   `json:"body"`
	Internal    bool                     `json:"internal"`
	Attachments []AttachmentResponse     `json:"attachments"`
	CreatedAt   time.Time                `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	URL        string    `json:"url,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TransitionOption is an action legal from the current state.
type TransitionOption struct {
	Status domain.TicketStatus `json:"status"`
	Action string              `json:"action"`
}

// TicketListResponse is one page of the filtered set.
type TicketListResponse struct {
	Items    []TicketSummary `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	HasMore  bool            `json:"has_more"`
}

// StatsResponse is the live statistics view.
type StatsResponse struct {
	Total                int                           `json:"total"`
	ByStatus             map[domain.TicketStatus]int   `json:"by_status"`
	ByPriority           map[domain.TicketPriority]int `json:"by_priority"`
	ByCategory           map[domain.TicketCategory]int `json:"by_category"`
	RecentActivity       int                           `json:"recent_activity"`
	AvgResolutionSeconds int64                         `json:"avg_resolution_seconds"`
	ResolvedCount        int                           `json:"resolved_count"`
}
