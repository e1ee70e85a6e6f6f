package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/cache"
	"tracker-backend/internal/models"
)

type BalanceSummer interface {
	SumForFilter(ctx context.Context, filter *models.BalanceFilter) (opening, closing, net int, err error)
}

type PurchaseAnalytics interface {
	BreakdownDelivered(ctx context.Context, baseID *int, category string, from, to *time.Time) (count, quantity int, err error)
	Recent(ctx context.Context, baseID *int, category string, from, to *time.Time, limit int) ([]models.ActivityItem, error)
}

type TransferAnalytics interface {
	BreakdownCompleted(ctx context.Context, baseID *int, category string, from, to *time.Time) (inCount, inQty, outCount, outQty int, err error)
	Recent(ctx context.Context, baseID *int, category string, from, to *time.Time, limit int) ([]models.ActivityItem, error)
}

type AssignmentAnalytics interface {
	BreakdownByStatus(ctx context.Context, baseID *int, category string, from, to *time.Time) (assignedCount, assignedQty, expendedCount, expendedQty int, err error)
	Recent(ctx context.Context, baseID *int, category string, from, to *time.Time, limit int) ([]models.ActivityItem, error)
}

// DashboardService aggregates balances, movement breakdowns and a merged
// recent-activity feed, clamped to the caller's base scope.
type DashboardService struct {
	Balances      BalanceSummer
	Purchases     PurchaseAnalytics
	Transfers     TransferAnalytics
	Assignments   AssignmentAnalytics
	ActivityLimit int
	CacheTTL      time.Duration
}

func NewDashboardService(balances BalanceSummer, purchases PurchaseAnalytics, transfers TransferAnalytics, assignments AssignmentAnalytics, activityLimit int, cacheTTL time.Duration) *DashboardService {
	if activityLimit <= 0 {
		activityLimit = 10
	}
	return &DashboardService{
		Balances:      balances,
		Purchases:     purchases,
		Transfers:     transfers,
		Assignments:   assignments,
		ActivityLimit: activityLimit,
		CacheTTL:      cacheTTL,
	}
}

// clampScope narrows the filter to the caller's visibility. Non-admins always
// query their own base, whatever the filter asked for.
func clampScope(scope models.Scope, filter *models.DashboardFilter) error {
	if scope.AllBases() {
		return nil
	}
	if scope.BaseID == nil {
		return apperrors.AccessDenied("no base assigned to your account")
	}
	if filter.BaseID != nil && *filter.BaseID != *scope.BaseID {
		return apperrors.AccessDenied("base %d is outside your base scope", *filter.BaseID)
	}
	filter.BaseID = scope.BaseID
	return nil
}

func cacheKey(filter *models.DashboardFilter) string {
	base := 0
	if filter.BaseID != nil {
		base = *filter.BaseID
	}
	from, to := "", ""
	if filter.From != nil {
		from = filter.From.Format(time.RFC3339)
	}
	if filter.To != nil {
		to = filter.To.Format(time.RFC3339)
	}
	return fmt.Sprintf("%d:%s:%s:%s", base, filter.Category, from, to)
}

// Metrics computes the dashboard for the filter, serving from cache when a
// fresh copy exists.
func (s *DashboardService) Metrics(ctx context.Context, scope models.Scope, filter *models.DashboardFilter) (*models.DashboardMetrics, error) {
	if err := clampScope(scope, filter); err != nil {
		return nil, err
	}

	key := cacheKey(filter)
	if data, ok := cache.GetCachedDashboard(ctx, key); ok {
		var cached models.DashboardMetrics
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		log.Printf("[Dashboard] discarding undecodable cache entry for %q", key)
	}

	metrics, err := s.compute(ctx, filter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(metrics); err == nil {
		cache.CacheDashboard(ctx, key, data, s.CacheTTL)
	}
	return metrics, nil
}

func (s *DashboardService) compute(ctx context.Context, filter *models.DashboardFilter) (*models.DashboardMetrics, error) {
	balanceFilter := &models.BalanceFilter{BaseID: filter.BaseID, Category: filter.Category}
	opening, closing, net, err := s.Balances.SumForFilter(ctx, balanceFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to sum balances: %w", err)
	}

	var breakdown models.MovementBreakdown
	breakdown.PurchaseCount, breakdown.PurchaseQuantity, err = s.Purchases.BreakdownDelivered(
		ctx, filter.BaseID, filter.Category, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to break down purchases: %w", err)
	}
	breakdown.TransferInCount, breakdown.TransferInQty, breakdown.TransferOutCount, breakdown.TransferOutQty, err = s.Transfers.BreakdownCompleted(
		ctx, filter.BaseID, filter.Category, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to break down transfers: %w", err)
	}
	breakdown.AssignedCount, breakdown.AssignedQuantity, breakdown.ExpendedCount, breakdown.ExpendedQuantity, err = s.Assignments.BreakdownByStatus(
		ctx, filter.BaseID, filter.Category, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to break down assignments: %w", err)
	}

	activity, err := s.recentActivity(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.DashboardMetrics{
		OpeningBalance: opening,
		ClosingBalance: closing,
		NetMovement:    net,
		Breakdown:      breakdown,
		RecentActivity: activity,
		GeneratedAt:    time.Now(),
	}, nil
}

// recentActivity merges the newest purchases, transfers and assignments into
// one feed sorted newest first and truncated to the configured limit. Each
// source is over-fetched to the full limit so no newer item loses its slot to
// an older one from another type.
func (s *DashboardService) recentActivity(ctx context.Context, filter *models.DashboardFilter) ([]models.ActivityItem, error) {
	purchases, err := s.Purchases.Recent(ctx, filter.BaseID, filter.Category, filter.From, filter.To, s.ActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent purchases: %w", err)
	}
	transfers, err := s.Transfers.Recent(ctx, filter.BaseID, filter.Category, filter.From, filter.To, s.ActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent transfers: %w", err)
	}
	assignments, err := s.Assignments.Recent(ctx, filter.BaseID, filter.Category, filter.From, filter.To, s.ActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent assignments: %w", err)
	}

	merged := make([]models.ActivityItem, 0, len(purchases)+len(transfers)+len(assignments))
	merged = append(merged, purchases...)
	merged = append(merged, transfers...)
	merged = append(merged, assignments...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	if len(merged) > s.ActivityLimit {
		merged = merged[:s.ActivityLimit]
	}
	return merged, nil
}
