package domain

import "time"

// CommentAuthorRole indicates who authored a comment.
type CommentAuthorRole string

const (
	AuthorRoleCustomer CommentAuthorRole = "customer"
	AuthorRoleSupport  CommentAuthorRole = "support"
	AuthorRoleAdmin    CommentAuthorRole = "admin"
)

// CommentAuthor bundles author identity for a comment.
type CommentAuthor struct {
	ID   string
	Name string
	Role CommentAuthorRole
}

// Comment is an append-only thread entry on a ticket. Comments are never
// edited or deleted once created.
type Comment struct {
	ID          string
	TicketID    string
	Author      CommentAuthor
	Body        string
	Internal    bool
	Attachments []Attachment
	CreatedAt   time.Time
}
