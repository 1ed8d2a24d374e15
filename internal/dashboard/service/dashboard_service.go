package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridloal/factory-inventory/internal/dashboard/domain"
	"github.com/ridloal/factory-inventory/internal/dashboard/repository"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
)

type DashboardService interface {
	// Snapshot serves the cached snapshot, building one on a miss.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	// Refresh rebuilds the snapshot from all sources and caches it.
	Refresh(ctx context.Context) (*domain.Snapshot, error)
}

type dashboardServiceImpl struct {
	catalog   CatalogSource
	suppliers SupplierSource
	orders    OrderSource
	cache     repository.SnapshotCache
	now       func() time.Time
}

func NewDashboardService(catalog CatalogSource, suppliers SupplierSource, orders OrderSource, cache repository.SnapshotCache) DashboardService {
	return &dashboardServiceImpl{
		catalog:   catalog,
		suppliers: suppliers,
		orders:    orders,
		cache:     cache,
		now:       time.Now,
	}
}

func (s *dashboardServiceImpl) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	cached, err := s.cache.Get(ctx)
	if err != nil {
		logger.Warn("Dashboard: cache read failed", "error", err)
	}
	if cached != nil {
		return cached, nil
	}
	return s.Refresh(ctx)
}

func (s *dashboardServiceImpl) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	snap := s.build(ctx)
	if err := s.cache.Set(ctx, snap); err != nil {
		logger.Warn("Dashboard: cache write failed", "error", err)
	}
	return snap, nil
}

// build queries every source concurrently. A failing source is logged and
// its figures stay zero.
func (s *dashboardServiceImpl) build(ctx context.Context) *domain.Snapshot {
	snap := &domain.Snapshot{
		InventoryValue: decimal.Zero,
		SalesRevenue:   decimal.Zero,
		RecentActivity: []domain.Activity{},
		GeneratedAt:    s.now(),
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		activity []domain.Activity
	)
	fail := func(source string, err error) {
		logger.Warn("Dashboard: source unavailable", "source", source, "error", err)
		mu.Lock()
		snap.Unavailable = append(snap.Unavailable, source)
		mu.Unlock()
	}
	collect := func(a ...domain.Activity) {
		mu.Lock()
		activity = append(activity, a...)
		mu.Unlock()
	}

	wg.Add(6)
	go func() {
		defer wg.Done()
		stats, err := s.catalog.Stats(ctx)
		if err != nil {
			fail("catalog", err)
			return
		}
		mu.Lock()
		snap.TotalProducts = stats.TotalProducts
		snap.InventoryValue = stats.InventoryValue
		snap.LowStock = stats.LowStock
		snap.OutOfStock = stats.OutOfStock
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		products, err := s.catalog.LowStock(ctx)
		if err != nil {
			fail("catalog_alerts", err)
			return
		}
		for _, p := range products {
			collect(domain.Activity{
				Kind:      domain.ActivityLowStock,
				Reference: p.Code,
				Title:     p.Name,
				Status:    string(p.Status),
				At:        p.UpdatedAt,
			})
		}
	}()
	go func() {
		defer wg.Done()
		stats, err := s.suppliers.Stats(ctx)
		if err != nil {
			fail("suppliers", err)
			return
		}
		mu.Lock()
		snap.Suppliers = stats.Total
		snap.ActiveSuppliers = stats.Active
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		stats, err := s.orders.ProcurementStats(ctx)
		if err != nil {
			fail("purchase_orders", err)
			return
		}
		mu.Lock()
		snap.PurchaseOrdersPending = stats.Pending
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		stats, err := s.orders.SalesStats(ctx)
		if err != nil {
			fail("sales_orders", err)
			return
		}
		mu.Lock()
		snap.SalesRevenue = stats.Revenue
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		pos, err := s.orders.RecentPurchaseOrders(ctx, domain.MaxRecentActivity)
		if err != nil {
			fail("recent_purchase_orders", err)
		}
		for _, po := range pos {
			amount := po.TotalValue
			collect(domain.Activity{
				Kind:      domain.ActivityPurchaseOrder,
				Reference: po.Number,
				Title:     po.Supplier,
				Status:    string(po.Status),
				Amount:    &amount,
				At:        po.OrderDate,
			})
		}
		sos, err := s.orders.RecentSalesOrders(ctx, domain.MaxRecentActivity)
		if err != nil {
			fail("recent_sales_orders", err)
		}
		for _, so := range sos {
			amount := so.TotalValue
			collect(domain.Activity{
				Kind:      domain.ActivitySalesOrder,
				Reference: so.Number,
				Title:     so.Customer,
				Status:    string(so.Status),
				Amount:    &amount,
				At:        so.OrderDate,
			})
		}
	}()
	wg.Wait()

	sort.SliceStable(activity, func(i, j int) bool { return activity[i].At.After(activity[j].At) })
	if len(activity) > domain.MaxRecentActivity {
		activity = activity[:domain.MaxRecentActivity]
	}
	if activity != nil {
		snap.RecentActivity = activity
	}
	sort.Strings(snap.Unavailable)
	return snap
}
