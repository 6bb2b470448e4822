package dto

import "time"

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PortfolioItemResponse is a showcased project.
type PortfolioItemResponse struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Tech     []string `json:"tech"`
	Year     int      `json:"year"`
	URL      string   `json:"url"`
	Featured bool     `json:"featured"`
}

// BlogPostSummary is a listing entry without the rendered body.
type BlogPostSummary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
	PostedAgo   string    `json:"posted_ago"`
}

// BlogPostResponse includes the rendered HTML body.
type BlogPostResponse struct {
	BlogPostSummary
	HTML string `json:"html"`
}

// PlanResponse is a mock subscription tier.
type PlanResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PriceCents int64    `json:"price_cents"`
	Interval   string   `json:"interval"`
	Features   []string `json:"features"`
}

// InvoiceResponse is a mock billing record.
type InvoiceResponse struct {
	ID          string    `json:"id"`
	PlanID      string    `json:"plan_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	IssuedAt    time.Time `json:"issued_at"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}
