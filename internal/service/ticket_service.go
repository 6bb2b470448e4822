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

const (
	titleMinLen       = 5
	titleMaxLen       = 100
	descriptionMinLen = 10
	descriptionMaxLen = 2000
)

// TicketService coordinates ticket lifecycle workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	blobs      storage.BlobStore
	policy     AttachmentPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	BlobStore  storage.BlobStore
	Policy     AttachmentPolicy
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		blobs:      deps.BlobStore,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// FileUpload carries attachment metadata plus the payload to store.
type FileUpload struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	Content   []byte
}

func (u FileUpload) candidate() FileCandidate {
	return FileCandidate{FileName: u.FileName, SizeBytes: u.SizeBytes, MimeType: u.MimeType}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory
	Tags        []string
	Attachments []FileUpload
}

// TicketUpdateInput carries optional field updates. Status changes go through
// Transition, never through here.
type TicketUpdateInput struct {
	Title               *string
	Description         *string
	Priority            *domain.TicketPriority
	Category            *domain.TicketCategory
	AssigneeID          *string
	AssigneeName        *string
	Tags                *[]string
	EstimatedResolution *time.Duration
}

// Actor identifies the caller of a mutation.
type Actor struct {
	UserID string
	Role   domain.UserRole
}

// CreateTicket validates input, stores any initial attachments and creates the
// ticket with status open.
func (s *TicketService) CreateTicket(ctx context.Context, actor Actor, input TicketCreateInput) (*domain.Ticket, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, util.NewValidationError("invalid priority", map[string]any{
			"field": "priority", "value": string(input.Priority)})
	}
	if !input.Category.Valid() {
		return nil, util.NewValidationError("invalid category", map[string]any{
			"field": "category", "value": string(input.Category)})
	}

	candidates := make([]FileCandidate, 0, len(input.Attachments))
	for _, upload := range input.Attachments {
		candidates = append(candidates, upload.candidate())
	}
	if err := s.policy.ValidateForTicket(candidates, nil); err != nil {
		return nil, err
	}
	attachments, err := s.storeUploads(ctx, input.Attachments)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Category:    input.Category,
		UserID:      actor.UserID,
		Tags:        input.Tags,
		Attachments: attachments,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// Transition moves a ticket along a legal edge of the lifecycle graph.
// Entering resolved stamps ResolvedAt the first time only; entering closed
// stamps ClosedAt. Reopening preserves both timestamps as historical record.
func (s *TicketService) Transition(ctx context.Context, actor Actor, ticketID string, target domain.TicketStatus) (*domain.Ticket, error) {
	if !target.Valid() {
		return nil, util.NewValidationError("invalid status", map[string]any{
			"field": "status", "value": string(target)})
	}

	var oldStatus domain.TicketStatus
	var action string
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		edge, ok := findEdge(t.Status, target)
		if !ok {
			return util.NewInvalidTransition(string(t.Status), string(target), allowedTargets(t.Status))
		}
		oldStatus = t.Status
		action = edge.Action
		t.Status = target

		now := time.Now()
		switch target {
		case domain.TicketStatusResolved:
			if t.ResolvedAt == nil {
				t.ResolvedAt = &now
				actual := now.Sub(t.CreatedAt)
				t.ActualResolution = &actual
			}
		case domain.TicketStatusClosed:
			t.ClosedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: target,
			Action:    action,
		},
	})
	return ticket, nil
}

// AvailableTransitions returns the actions legal from the ticket's current
// state, derived from the transition table.
func (s *TicketService) AvailableTransitions(ctx context.Context, ticketID string) ([]domain.StatusTransition, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return domain.TransitionsFrom(ticket.Status), nil
}

// UpdateTicket applies partial field updates.
func (s *TicketService) UpdateTicket(ctx context.Context, actor Actor, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if err := validateTitle(trimmed); err != nil {
			return nil, err
		}
		input.Title = &trimmed
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if err := validateDescription(trimmed); err != nil {
			return nil, err
		}
		input.Description = &trimmed
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, util.NewValidationError("invalid priority", map[string]any{
			"field": "priority", "value": string(*input.Priority)})
	}
	if input.Category != nil && !input.Category.Valid() {
		return nil, util.NewValidationError("invalid category", map[string]any{
			"field": "category", "value": string(*input.Category)})
	}

	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		if input.Title != nil {
			t.Title = *input.Title
		}
		if input.Description != nil {
			t.Description = *input.Description
		}
		if input.Priority != nil {
			t.Priority = *input.Priority
		}
		if input.Category != nil {
			t.Category = *input.Category
		}
		if input.AssigneeID != nil {
			t.AssigneeID = input.AssigneeID
		}
		if input.AssigneeName != nil {
			t.AssigneeName = input.AssigneeName
		}
		if input.Tags != nil {
			t.Tags = append([]string(nil), (*input.Tags)...)
		}
		if input.EstimatedResolution != nil {
			t.EstimatedResolution = input.EstimatedResolution
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
	})
	return ticket, nil
}

// DeleteTicket removes a ticket entirely.
func (s *TicketService) DeleteTicket(ctx context.Context, actor Actor, ticketID string) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		Actor:    eventActor(actor),
	})
	return nil
}

// AddAttachment validates and stores a file, then records it on the ticket.
// The blob upload honors ctx cancellation; an abandoned upload records
// nothing on the ticket.
func (s *TicketService) AddAttachment(ctx context.Context, actor Actor, ticketID string, upload FileUpload) (*domain.Attachment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.ValidateForTicket([]FileCandidate{upload.candidate()}, ticket.Attachments); err != nil {
		return nil, err
	}

	stored, err := s.storeUploads(ctx, []FileUpload{upload})
	if err != nil {
		return nil, err
	}
	attachment := stored[0]

	if _, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		// The set may have changed between the read and this mutation;
		// re-validate against the current state.
		if err := s.policy.ValidateForTicket([]FileCandidate{upload.candidate()}, t.Attachments); err != nil {
			return err
		}
		t.Attachments = append(t.Attachments, attachment)
		return nil
	}); err != nil {
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), attachment.StorageKey); delErr != nil {
			s.logger.Warn("orphaned blob after rejected attachment",
				zap.String("storage_key", attachment.StorageKey), zap.Error(delErr))
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAttachmentAdded,
		TicketID: ticketID,
		Actor:    eventActor(actor),
		Payload: events.TicketAttachmentPayload{
			AttachmentID: attachment.ID,
			FileName:     attachment.FileName,
			SizeBytes:    attachment.SizeBytes,
		},
	})
	return &attachment, nil
}

// DeleteAttachment removes an attachment directly on the ticket. Attachments
// on comments are immutable.
func (s *TicketService) DeleteAttachment(ctx context.Context, actor Actor, ticketID, attachmentID string) error {
	var removed domain.Attachment
	_, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		for i, att := range t.Attachments {
			if att.ID == attachmentID {
				removed = att
				t.Attachments = append(t.Attachments[:i], t.Attachments[i+1:]...)
				return nil
			}
		}
		return util.NewNotFound("attachment", map[string]any{"id": attachmentID})
	})
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, removed.StorageKey); err != nil {
		s.logger.Warn("delete attachment blob",
			zap.String("storage_key", removed.StorageKey), zap.Error(err))
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAttachmentDeleted,
		TicketID: ticketID,
		Actor:    eventActor(actor),
		Payload: events.TicketAttachmentPayload{
			AttachmentID: removed.ID,
			FileName:     removed.FileName,
			SizeBytes:    removed.SizeBytes,
		},
	})
	return nil
}

func (s *TicketService) storeUploads(ctx context.Context, uploads []FileUpload) ([]domain.Attachment, error) {
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
	return attachments, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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

func eventActor(actor Actor) events.Actor {
	return events.Actor{UserID: actor.UserID, Role: actor.Role}
}

func findEdge(current, target domain.TicketStatus) (domain.StatusTransition, bool) {
	for _, edge := range domain.TransitionsFrom(current) {
		if edge.To == target {
			return edge, true
		}
	}
	return domain.StatusTransition{}, false
}

func allowedTargets(current domain.TicketStatus) []string {
	targets := domain.TransitionTargets(current)
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, string(t))
	}
	return out
}

func validateTitle(title string) error {
	length := utf8.RuneCountInString(title)
	if length < titleMinLen || length > titleMaxLen {
		return util.NewValidationError("title must be between 5 and 100 characters", map[string]any{
			"field": "title", "length": length})
	}
	return nil
}

func validateDescription(description string) error {
	length := utf8.RuneCountInString(description)
	if length < descriptionMinLen || length > descriptionMaxLen {
		return util.NewValidationError("description must be between 10 and 2000 characters", map[string]any{
			"field": "description", "length": length})
	}
	return nil
}
