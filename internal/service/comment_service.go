package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/internal/events"
	"github.com/studiokit/portal/internal/repository"
	"github.com/studiokit/portal/internal/storage"
	"github.com/studiokit/portal/pkg/util"
)

const commentMaxLen = 1000

// CommentService appends comments to ticket threads. Comments are append-only
// and immutable once created.
type CommentService struct {
	tickets    repository.TicketRepository
	blobs      storage.BlobStore
	policy     AttachmentPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCommentService constructs the service.
func NewCommentService(tickets repository.TicketRepository, blobs storage.BlobStore, policy AttachmentPolicy, dispatcher events.Dispatcher, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		tickets:    tickets,
		blobs:      blobs,
		policy:     policy,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// AddComment validates the body and attachments, stores the attachment
// payloads and appends the comment to the ticket. The ticket's UpdatedAt is
// refreshed by the repository on success; a failed validation leaves the
// ticket untouched.
func (s *CommentService) AddComment(ctx context.Context, ticketID string, author domain.CommentAuthor, body string, internal bool, uploads []FileUpload) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if length := utf8.RuneCountInString(body); length == 0 || length > commentMaxLen {
		return nil, util.NewValidationError("comment body must be between 1 and 1000 characters", map[string]any{
			"field": "body", "length": length})
	}

	candidates := make([]FileCandidate, 0, len(uploads))
	for _, upload := range uploads {
		candidates = append(candidates, upload.candidate())
	}
	if err := s.policy.ValidateForComment(candidates, nil); err != nil {
		return nil, err
	}

	// Reject unknown tickets before paying for uploads.
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}

	attachments := make([]domain.Attachment, 0, len(uploads))
	for _, upload := range uploads {
		id := uuid.NewString()
		url, err := s.blobs.Put(ctx, id, upload.MimeType, upload.Content)
		if err != nil {
			for _, att := range attachments {
				_ = s.blobs.Delete(context.WithoutCancel(ctx), att.StorageKey)
			}
			return nil, err
		}
		attachments = append(attachments, domain.Attachment{
			ID:         id,
			FileName:   upload.FileName,
			SizeBytes:  upload.SizeBytes,
			MimeType:   upload.MimeType,
			StorageKey: id,
			URL:        url,
			UploadedAt: time.Now(),
		})
	}

	comment := domain.Comment{
		ID:          uuid.NewString(),
		TicketID:    ticketID,
		Author:      author,
		Body:        body,
		Internal:    internal,
		Attachments: attachments,
		CreatedAt:   time.Now(),
	}

	if _, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		t.Comments = append(t.Comments, comment)
		return nil
	}); err != nil {
		for _, att := range attachments {
			if delErr := s.blobs.Delete(context.WithoutCancel(ctx), att.StorageKey); delErr != nil {
				s.logger.Warn("orphaned blob after failed comment",
					zap.String("storage_key", att.StorageKey), zap.Error(delErr))
			}
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticketID,
		Actor:    events.Actor{UserID: author.ID},
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorRole:  author.Role,
			Internal:    internal,
			Attachments: len(attachments),
		},
	})
	return &comment, nil
}

// ListComments returns the ticket's comment thread in creation order.
// Internal comments are filtered out for customers.
func (s *CommentService) ListComments(ctx context.Context, ticketID string, includeInternal bool) ([]domain.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if includeInternal {
		return ticket.Comments, nil
	}
	visible := make([]domain.Comment, 0, len(ticket.Comments))
	for _, comment := range ticket.Comments {
		if comment.Internal {
			continue
		}
		visible = append(visible, comment)
	}
	return visible, nil
}

func (s *CommentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
