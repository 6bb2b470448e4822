package domain

import "time"

// Plan is a subscription tier on the mock billing page. There is no payment
// integration; plans and invoices exist for display only.
type Plan struct {
	ID         string
	Name       string
	PriceCents int64
	Interval   string
	Features   []string
}

// InvoiceStatus enumerates mock invoice states.
type InvoiceStatus string

const (
	InvoiceStatusPaid InvoiceStatus = "paid"
	InvoiceStatusDue  InvoiceStatus = "due"
)

// Invoice is a mock billing record shown in the customer portal.
type Invoice struct {
	ID          string
	UserID      string
	PlanID      string
	AmountCents int64
	Status      InvoiceStatus
	IssuedAt    time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
}
