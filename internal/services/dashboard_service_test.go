package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tracker-backend/internal/apperrors"
	"tracker-backend/internal/models"
)

// fakeAnalytics feeds the dashboard fixed figures and records the base scope
// it was queried with.
type fakeAnalytics struct {
	opening, closing, net int
	purchases             []models.ActivityItem
	transfers             []models.ActivityItem
	assignments           []models.ActivityItem
	queriedBase           *int
}

func (f *fakeAnalytics) SumForFilter(ctx context.Context, filter *models.BalanceFilter) (int, int, int, error) {
	f.queriedBase = filter.BaseID
	return f.opening, f.closing, f.net, nil
}

func (f *fakeAnalytics) BreakdownDelivered(ctx context.Context, baseID *int, category string, from, to *time.Time) (int, int, error) {
	return len(f.purchases), 0, nil
}

func (f *fakeAnalytics) BreakdownCompleted(ctx context.Context, baseID *int, category string, from, to *time.Time) (int, int, int, int, error) {
	return 0, 0, 0, 0, nil
}

func (f *fakeAnalytics) BreakdownByStatus(ctx context.Context, baseID *int, category string, from, to *time.Time) (int, int, int, int, error) {
	return 0, 0, 0, 0, nil
}

func (f *fakeAnalytics) Recent(ctx context.Context, baseID *int, category string, from, to *time.Time, limit int) ([]models.ActivityItem, error) {
	return nil, nil
}

// recentFn lets each transaction type return its own feed slice.
type recentFn struct {
	*fakeAnalytics
	items []models.ActivityItem
}

func (r recentFn) Recent(ctx context.Context, baseID *int, category string, from, to *time.Time, limit int) ([]models.ActivityItem, error) {
	if len(r.items) > limit {
		return r.items[:limit], nil
	}
	return r.items, nil
}

func at(offsetMinutes int) time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offsetMinutes) * time.Minute)
}

func newDashboardFixture(limit int) (*DashboardService, *fakeAnalytics) {
	fa := &fakeAnalytics{
		opening: 100, closing: 150, net: 50,
		purchases: []models.ActivityItem{
			{Type: "purchase", ID: 1, Date: at(10)},
			{Type: "purchase", ID: 2, Date: at(40)},
		},
		transfers: []models.ActivityItem{
			{Type: "transfer", ID: 3, Date: at(30)},
		},
		assignments: []models.ActivityItem{
			{Type: "assignment", ID: 4, Date: at(20)},
			{Type: "assignment", ID: 5, Date: at(50)},
		},
	}
	svc := NewDashboardService(
		fa,
		recentFn{fa, fa.purchases},
		recentFn{fa, fa.transfers},
		recentFn{fa, fa.assignments},
		limit, 0,
	)
	return svc, fa
}

func TestDashboardAdminSeesAllBases(t *testing.T) {
	svc, fa := newDashboardFixture(10)
	ctx := context.Background()

	scope := models.Scope{UserID: 1, Role: models.RoleAdmin}
	m, err := svc.Metrics(ctx, scope, &models.DashboardFilter{})
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if fa.queriedBase != nil {
		t.Errorf("admin query should not be base-scoped, got base %d", *fa.queriedBase)
	}
	if m.OpeningBalance != 100 || m.ClosingBalance != 150 || m.NetMovement != 50 {
		t.Errorf("unexpected summary figures: %+v", m)
	}
}

func TestDashboardNonAdminClampedToHomeBase(t *testing.T) {
	svc, fa := newDashboardFixture(10)
	ctx := context.Background()

	homeBase := 7
	scope := models.Scope{UserID: 2, Role: models.RoleBaseCommander, BaseID: &homeBase}

	// No explicit base filter: clamped to home base.
	if _, err := svc.Metrics(ctx, scope, &models.DashboardFilter{}); err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if fa.queriedBase == nil || *fa.queriedBase != homeBase {
		t.Errorf("expected query clamped to base %d, got %v", homeBase, fa.queriedBase)
	}

	// Foreign base filter: denied.
	foreign := 9
	_, err := svc.Metrics(ctx, scope, &models.DashboardFilter{BaseID: &foreign})
	var denied *apperrors.AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected access denied for foreign base, got %v", err)
	}
}

func TestDashboardNonAdminWithoutBaseDenied(t *testing.T) {
	svc, _ := newDashboardFixture(10)
	ctx := context.Background()

	scope := models.Scope{UserID: 3, Role: models.RoleLogisticsOfficer}
	_, err := svc.Metrics(ctx, scope, &models.DashboardFilter{})
	var denied *apperrors.AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected access denied for officer without base, got %v", err)
	}
}

func TestDashboardActivityMergedSortedTruncated(t *testing.T) {
	svc, _ := newDashboardFixture(3)
	ctx := context.Background()

	scope := models.Scope{UserID: 1, Role: models.RoleAdmin}
	m, err := svc.Metrics(ctx, scope, &models.DashboardFilter{})
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}

	if len(m.RecentActivity) != 3 {
		t.Fatalf("expected feed truncated to 3, got %d", len(m.RecentActivity))
	}
	// Newest first: assignment 5 (t+50), purchase 2 (t+40), transfer 3 (t+30).
	wantIDs := []int{5, 2, 3}
	for i, want := range wantIDs {
		if m.RecentActivity[i].ID != want {
			t.Errorf("feed[%d]: expected id %d, got %d", i, want, m.RecentActivity[i].ID)
		}
	}
	for i := 1; i < len(m.RecentActivity); i++ {
		if m.RecentActivity[i].Date.After(m.RecentActivity[i-1].Date) {
			t.Errorf("feed not sorted newest first at index %d", i)
		}
	}
}
