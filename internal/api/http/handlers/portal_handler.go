package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/xeonx/timeago"

	"github.com/studiokit/portal/internal/api/dto"
	"github.com/studiokit/portal/internal/auth"
	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/internal/service"
	"github.com/studiokit/portal/pkg/util"
)

// PortalHandler serves the presentational surfaces: portfolio, blog, billing.
type PortalHandler struct {
	portfolio *service.PortfolioService
	blog      *service.BlogService
	billing   *service.BillingService
}

// NewPortalHandler constructs the handler.
func NewPortalHandler(portfolio *service.PortfolioService, blog *service.BlogService, billing *service.BillingService) *PortalHandler {
	return &PortalHandler{portfolio: portfolio, blog: blog, billing: billing}
}

// ListPortfolio GET /portfolio.
func (h *PortalHandler) ListPortfolio(c *fiber.Ctx) error {
	items, err := h.portfolio.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.PortfolioItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, portfolioResponse(item))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetPortfolioItem GET /portfolio/:id.
func (h *PortalHandler) GetPortfolioItem(c *fiber.Ctx) error {
	item, err := h.portfolio.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": portfolioResponse(*item)})
}

// ListPosts GET /blog.
func (h *PortalHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.blog.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.BlogPostSummary, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, blogSummary(post))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetPost GET /blog/:slug.
func (h *PortalHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.blog.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BlogPostResponse{
		BlogPostSummary: blogSummary(post.BlogPost),
		HTML:            post.HTML,
	}})
}

// ListPlans GET /billing/plans.
func (h *PortalHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.billing.Plans(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		resp = append(resp, dto.PlanResponse{
			ID:         plan.ID,
			Name:       plan.Name,
			PriceCents: plan.PriceCents,
			Interval:   plan.Interval,
			Features:   plan.Features,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListInvoices GET /billing/invoices.
func (h *PortalHandler) ListInvoices(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("user required")
	}
	invoices, err := h.billing.InvoicesForUser(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	resp := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		resp = append(resp, dto.InvoiceResponse{
			ID:          invoice.ID,
			PlanID:      invoice.PlanID,
			AmountCents: invoice.AmountCents,
			Status:      string(invoice.Status),
			IssuedAt:    invoice.IssuedAt,
			PeriodStart: invoice.PeriodStart,
			PeriodEnd:   invoice.PeriodEnd,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func portfolioResponse(item domain.PortfolioItem) dto.PortfolioItemResponse {
	return dto.PortfolioItemResponse{
		ID:       item.ID,
		Title:    item.Title,
		Summary:  item.Summary,
		Tech:     item.Tech,
		Year:     item.Year,
		URL:      item.URL,
		Featured: item.Featured,
	}
}

func blogSummary(post domain.BlogPost) dto.BlogPostSummary {
	return dto.BlogPostSummary{
		Slug:        post.Slug,
		Title:       post.Title,
		Author:      post.Author,
		Tags:        post.Tags,
		PublishedAt: post.PublishedAt,
		PostedAgo:   timeago.English.Format(post.PublishedAt),
	}
}
