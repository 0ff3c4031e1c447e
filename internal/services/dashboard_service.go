package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/atelier-ms/repair-tracking-service/internal/cache"
	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
)

const (
	dashboardCacheKey   = "dashboard"
	recentActivityLimit = 3
)

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  *cache.CacheHelper
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger, statsCache *cache.CacheHelper) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
		cache:  statsCache,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, actor *models.Identity) (*DashboardResponse, error) {
	if s.cache != nil {
		var cached DashboardResponse
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	counts, err := s.repo.Dashboard().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count vehicles by status: %w", err)
	}

	vehicles, err := s.repo.Vehicle().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	now := time.Now()
	for _, v := range vehicles {
		synthesizeHistory(v, now)
	}

	response := &DashboardResponse{
		Summary:        ComputeSummary(counts),
		RecentActivity: RecentActivity(vehicles, recentActivityLimit),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, response, cache.StatsCacheConfig.TTL); err != nil {
			s.logger.Warn("Failed to cache dashboard", "error", err)
		}
	}

	return response, nil
}

// ComputeSummary folds per-status counts into the four headline buckets.
// Counts for vehicles that left the workshop never reach this function, so
// total is simply the sum.
func ComputeSummary(counts []repositories.StatusCount) DashboardSummary {
	var summary DashboardSummary
	for _, c := range counts {
		if c.Status.Terminal() {
			continue
		}
		summary.Total += c.Count
		switch {
		case c.Status == models.StatusPret:
			summary.Ready += c.Count
		case models.InProgressStatuses[c.Status]:
			summary.InProgress += c.Count
		default:
			summary.Pending += c.Count
		}
	}
	return summary
}

// RecentActivity returns the n most recently touched active vehicles, newest
// first. A vehicle's touch time is its last status change, falling back to
// its arrival date.
func RecentActivity(vehicles []*models.Vehicle, n int) []RecentActivityEntry {
	active := make([]*models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if !v.CurrentStatus.Terminal() {
			active = append(active, v)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return lastTouched(active[i]).After(lastTouched(active[j]))
	})

	if n > len(active) {
		n = len(active)
	}

	entries := make([]RecentActivityEntry, 0, n)
	for _, v := range active[:n] {
		entry := RecentActivityEntry{
			VehicleID:  v.ID,
			Matricule:  v.Matricule,
			ClientName: v.ClientName,
			Status:     v.CurrentStatus,
			ChangedAt:  lastTouched(v),
		}
		if last := v.LastStatusChange(); last != nil {
			entry.ChangedBy = last.ChangedBy
		}
		entries = append(entries, entry)
	}
	return entries
}

func lastTouched(v *models.Vehicle) time.Time {
	if last := v.LastStatusChange(); last != nil && !last.ChangedAt.IsZero() {
		return last.ChangedAt
	}
	return v.DateArrivee
}
