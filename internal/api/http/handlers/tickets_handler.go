package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/studiokit/portal/internal/api/dto"
	"github.com/studiokit/portal/internal/auth"
	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/internal/service"
	"github.com/studiokit/portal/pkg/util"
)

// TicketsHandler exposes ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	comments *service.CommentService
	queries  *service.QueryEngine
	stats    *service.StatsService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService, comments *service.CommentService, queries *service.QueryEngine, stats *service.StatsService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, comments: comments, queries: queries, stats: stats}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Tags:        req.Tags,
		Attachments: uploadsFromRequest(req.Attachments),
	}
	ticket, err := h.tickets.CreateTicket(c.UserContext(), actorFrom(principal), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket, principal.IsStaff())})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	query := parseTicketQuery(c)
	result, err := h.queries.Query(c.UserContext(), query)
	if err != nil {
		return err
	}

	items := make([]dto.TicketSummary, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, ticketSummary(&result.Items[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		HasMore:  result.HasMore,
	}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, principal.IsStaff())})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	input := service.TicketUpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Category:     req.Category,
		AssigneeID:   req.AssigneeID,
		AssigneeName: req.AssigneeName,
		Tags:         req.Tags,
	}
	if req.EstimatedResolution != nil {
		estimated := time.Duration(*req.EstimatedResolution) * time.Second
		input.EstimatedResolution = &estimated
	}
	ticket, err := h.tickets.UpdateTicket(c.UserContext(), actorFrom(principal), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, principal.IsStaff())})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("user required")
	}
	if err := h.tickets.DeleteTicket(c.UserContext(), actorFrom(principal), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Transition POST /tickets/:id/transition.
func (h *TicketsHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("user required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Transition(c.UserContext(), actorFrom(principal), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, principal.IsStaff())})
}

// ListTransitions GET /tickets/:id/transitions.
func (h *TicketsHandler) ListTransitions(c *fiber.Ctx) error {
	transitions, err := h.tickets.AvailableTransitions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	options := make([]dto.TransitionOption, 0, len(transitions))
	for _, t := range transitions {
		options = append(options, dto.TransitionOption{Status: t.To, Action: t.Action})
	}
	return c.JSON(fiber.Map{"data": options})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("user required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Internal && !principal.IsStaff() {
		return util.NewForbidden("internal comments are limited to support staff")
	}

	author := domain.CommentAuthor{
		ID:   principal.User.ID,
		Name: principal.User.Name,
		Role: principal.User.Role.CommentRole(),
	}
	comment, err := h.comments.AddComment(c.UserContext(), c.Params("id"), author, req.Body, req.Internal, uploadsFromRequest(req.Attachments))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// AddAttachment POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("user required")
	}
	var req dto.AttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	attachment, err := h.tickets.AddAttachment(c.UserContext(), actorFrom(principal), c.Params("id"), service.FileUpload{
		FileName:  req.FileName,
		MimeType:  req.MimeType,
		SizeBytes: req.SizeBytes,
		Content:   req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(*attachment)})
}

// DeleteAttachment DELETE /tickets/:id/attachments/:attachmentID.
func (h *TicketsHandler) DeleteAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("user required")
	}
	if err := h.tickets.DeleteAttachment(c.UserContext(), actorFrom(principal), c.Params("id"), c.Params("attachmentID")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Snapshot(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Total:                stats.Total,
		ByStatus:             stats.ByStatus,
		ByPriority:           stats.ByPriority,
		ByCategory:           stats.ByCategory,
		RecentActivity:       stats.RecentActivity,
		AvgResolutionSeconds: int64(stats.AvgResolution.Seconds()),
		ResolvedCount:        stats.ResolvedCount,
	}})
}

func actorFrom(principal *auth.Principal) service.Actor {
	id, role := principal.Actor()
	return service.Actor{UserID: id, Role: role}
}

func uploadsFromRequest(requests []dto.AttachmentRequest) []service.FileUpload {
	uploads := make([]service.FileUpload, 0, len(requests))
	for _, req := range requests {
		uploads = append(uploads, service.FileUpload{
			FileName:  req.FileName,
			MimeType:  req.MimeType,
			SizeBytes: req.SizeBytes,
			Content:   req.Content,
		})
	}
	return uploads
}

func parseTicketQuery(c *fiber.Ctx) service.TicketQuery {
	filter := service.TicketFilter{Search: c.Query("search")}
	for _, part := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(part))
	}
	for _, part := range splitCSV(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.TicketPriority(part))
	}
	for _, part := range splitCSV(c.Query("category")) {
		filter.Categories = append(filter.Categories, domain.TicketCategory(part))
	}
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))

	sortSpec := service.SortSpec{
		Field:     service.SortField(c.Query("sort", string(service.SortByCreatedAt))),
		Direction: service.SortDirection(c.Query("direction", string(service.SortDesc))),
	}

	return service.TicketQuery{
		Filter:   filter,
		Sort:     sortSpec,
		Page:     parseInt(c.Query("page"), 1),
		PageSize: parseInt(c.Query("page_size"), 20),
	}
}

func splitCSV(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:            ticket.ID,
		Title:         ticket.Title,
		Status:        ticket.Status,
		Priority:      ticket.Priority,
		Category:      ticket.Category,
		CategoryLabel: ticket.Category.Label(),
		AssigneeName:  ticket.AssigneeName,
		Tags:          ticket.Tags,
		CommentCount:  len(ticket.Comments),
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, includeInternal bool) dto.TicketDetailResponse {
	comments := make([]dto.CommentResponse, 0, len(ticket.Comments))
	for i := range ticket.Comments {
		if ticket.Comments[i].Internal && !includeInternal {
			continue
		}
		comments = append(comments, commentResponse(&ticket.Comments[i]))
	}
	attachments := make([]dto.AttachmentResponse, 0, len(ticket.Attachments))
	for _, att := range ticket.Attachments {
		attachments = append(attachments, attachmentResponse(att))
	}
	return dto.TicketDetailResponse{
		ID:                  ticket.ID,
		Title:               ticket.Title,
		Description:         ticket.Description,
		Status:              ticket.Status,
		Priority:            ticket.Priority,
		Category:            ticket.Category,
		CategoryLabel:       ticket.Category.Label(),
		UserID:              ticket.UserID,
		AssigneeID:          ticket.AssigneeID,
		AssigneeName:        ticket.AssigneeName,
		Tags:                ticket.Tags,
		Comments:            comments,
		Attachments:         attachments,
		CreatedAt:           ticket.CreatedAt,
		UpdatedAt:           ticket.UpdatedAt,
		ResolvedAt:          ticket.ResolvedAt,
		ClosedAt:            ticket.ClosedAt,
		EstimatedResolution: durationSeconds(ticket.EstimatedResolution),
		ActualResolution:    durationSeconds(ticket.ActualResolution),
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(comment.Attachments))
	for _, att := range comment.Attachments {
		attachments = append(attachments, attachmentResponse(att))
	}
	return dto.CommentResponse{
		ID:          comment.ID,
		AuthorID:    comment.Author.ID,
		AuthorName:  comment.Author.Name,
		AuthorRole:  comment.Author.Role,
		Body:        comment.Body,
		Internal:    comment.Internal,
		Attachments: attachments,
		CreatedAt:   comment.CreatedAt,
	}
}

func attachmentResponse(att domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:         att.ID,
		FileName:   att.FileName,
		MimeType:   att.MimeType,
		SizeBytes:  att.SizeBytes,
		URL:        att.URL,
		UploadedAt: att.UploadedAt,
	}
}

func durationSeconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	seconds := int64(d.Seconds())
	return &seconds
}
