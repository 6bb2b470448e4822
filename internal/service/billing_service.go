package service

import (
	"context"
	"fmt"
	"time"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/pkg/util"
)

// BillingService serves the mock billing pages. Plans are fixed and invoices
// are generated deterministically per user; there is no payment integration.
type BillingService struct {
	plans []domain.Plan
}

// NewBillingService seeds the plan catalog.
func NewBillingService() *BillingService {
	return &BillingService{plans: seedPlans()}
}

// Plans returns the fixed plan catalog.
func (s *BillingService) Plans(ctx context.Context) ([]domain.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Plan(nil), s.plans...), nil
}

// Plan returns a single plan by id.
func (s *BillingService) Plan(ctx context.Context, id string) (*domain.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, plan := range s.plans {
		if plan.ID == id {
			return &plan, nil
		}
	}
	return nil, util.NewNotFound("plan", map[string]any{"id": id})
}

// InvoicesForUser fabricates a mock invoice history: three monthly invoices on
// the starter plan, the most recent one still due.
func (s *BillingService) InvoicesForUser(ctx context.Context, userID string) ([]domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	plan := s.plans[0]
	now := time.Now()
	invoices := make([]domain.Invoice, 0, 3)
	for i := 2; i >= 0; i-- {
		periodStart := now.AddDate(0, -i-1, 0)
		periodEnd := now.AddDate(0, -i, 0)
		status := domain.InvoiceStatusPaid
		if i == 0 {
			status = domain.InvoiceStatusDue
		}
		invoices = append(invoices, domain.Invoice{
			ID:          fmt.Sprintf("INV-%s-%d", userID, 3-i),
			UserID:      userID,
			PlanID:      plan.ID,
			AmountCents: plan.PriceCents,
			Status:      status,
			IssuedAt:    periodEnd,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		})
	}
	return invoices, nil
}

func seedPlans() []domain.Plan {
	return []domain.Plan{
		{
			ID:         "starter",
			Name:       "Starter",
			PriceCents: 9900,
			Interval:   "month",
			Features:   []string{"Email support", "2 business day response", "Monthly report"},
		},
		{
			ID:         "growth",
			Name:       "Growth",
			PriceCents: 24900,
			Interval:   "month",
			Features:   []string{"Priority support", "Next business day response", "Weekly report", "Uptime monitoring"},
		},
		{
			ID:         "dedicated",
			Name:       "Dedicated",
			PriceCents: 59900,
			Interval:   "month",
			Features:   []string{"Same day response", "On-call incident support", "Quarterly planning", "Unlimited tickets"},
		},
	}
}
