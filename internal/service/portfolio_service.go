package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/pkg/util"
)

// PortfolioService serves the marketing site's showcased projects from an
// in-memory key/value store seeded at startup.
type PortfolioService struct {
	mu    sync.RWMutex
	items map[string]domain.PortfolioItem
}

// NewPortfolioService seeds the catalog.
func NewPortfolioService() *PortfolioService {
	s := &PortfolioService{items: make(map[string]domain.PortfolioItem)}
	for _, item := range seedPortfolio() {
		s.items[item.ID] = item
	}
	return s
}

// List returns all items, featured first, then newest first.
func (s *PortfolioService) List(ctx context.Context) ([]domain.PortfolioItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.PortfolioItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Featured != items[j].Featured {
			return items[i].Featured
		}
		if items[i].Year != items[j].Year {
			return items[i].Year > items[j].Year
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// Get returns a single item by id.
func (s *PortfolioService) Get(ctx context.Context, id string) (*domain.PortfolioItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, util.NewNotFound("portfolio item", map[string]any{"id": id})
	}
	return &item, nil
}

func seedPortfolio() []domain.PortfolioItem {
	return []domain.PortfolioItem{
		{
			ID:          "warehouse-dashboard",
			Title:       "Warehouse Operations Dashboard",
			Summary:     "Real-time inventory and fulfillment dashboard for a regional logistics company.",
			Tech:        []string{"Go", "PostgreSQL", "React"},
			Year:        2025,
			URL:         "https://example.com/case-studies/warehouse-dashboard",
			Featured:    true,
			PublishedAt: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "clinic-scheduling",
			Title:       "Clinic Scheduling Platform",
			Summary:     "Appointment booking and reminder system for a three-location dental practice.",
			Tech:        []string{"Go", "Redis", "Vue"},
			Year:        2024,
			URL:         "https://example.com/case-studies/clinic-scheduling",
			Featured:    true,
			PublishedAt: time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "retail-pos-sync",
			Title:       "Retail POS Synchronization",
			Summary:     "Offline-first point-of-sale sync layer bridging legacy registers and a cloud ERP.",
			Tech:        []string{"Go", "SQLite", "gRPC"},
			Year:        2024,
			URL:         "https://example.com/case-studies/retail-pos-sync",
			PublishedAt: time.Date(2024, 4, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "fleet-telemetry",
			Title:       "Fleet Telemetry Collector",
			Summary:     "Ingestion pipeline for GPS and engine telemetry across a 200-vehicle fleet.",
			Tech:        []string{"Go", "Kafka", "TimescaleDB"},
			Year:        2023,
			URL:         "https://example.com/case-studies/fleet-telemetry",
			PublishedAt: time.Date(2023, 11, 7, 0, 0, 0, 0, time.UTC),
		},
	}
}
