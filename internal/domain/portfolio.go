package domain

import "time"

// PortfolioItem is a showcased project on the marketing site.
type PortfolioItem struct {
	ID          string
	Title       string
	Summary     string
	Tech        []string
	Year        int
	URL         string
	Featured    bool
	PublishedAt time.Time
}
