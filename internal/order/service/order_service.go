package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ridloal/factory-inventory/internal/order/domain"
	"github.com/ridloal/factory-inventory/internal/order/repository"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
	"github.com/ridloal/factory-inventory/internal/platform/search"
)

type OrderService interface {
	ListPurchaseOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error)
	ProcurementStats(ctx context.Context) (*domain.ProcurementStats, error)

	ListSalesOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error)
	GetSalesOrder(ctx context.Context, id string) (*domain.SalesOrder, error)
	SalesStats(ctx context.Context) (*domain.SalesStats, error)
	// CreateSalesOrder is idempotent per quotation: a repeated request for a
	// quotation that already has an order returns that order with created
	// set to false.
	CreateSalesOrder(ctx context.Context, req domain.CreateSalesOrderRequest) (order *domain.SalesOrder, created bool, err error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(or repository.OrderRepository) OrderService {
	return &orderServiceImpl{orderRepo: or}
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func (s *orderServiceImpl) ListPurchaseOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.PurchaseOrder, error) {
	orders, err := s.orderRepo.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, err
	}
	orders = search.Filter(orders, filter.Query, func(o domain.PurchaseOrder) []string {
		return []string{o.Number, o.Supplier}
	})
	if filter.Status != "" {
		out := orders[:0:0]
		for _, o := range orders {
			if strings.EqualFold(string(o.Status), filter.Status) {
				out = append(out, o)
			}
		}
		orders = out
	}
	return limit(orders, filter.Limit), nil
}

func (s *orderServiceImpl) GetPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	o, err := s.orderRepo.GetPurchaseOrderByID(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, apperror.NotFound("purchase order not found", err)
	}
	return o, err
}

func (s *orderServiceImpl) ProcurementStats(ctx context.Context) (*domain.ProcurementStats, error) {
	orders, err := s.orderRepo.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.ProcurementStats{Count: len(orders), TotalValue: decimal.Zero}
	for _, o := range orders {
		stats.TotalValue = stats.TotalValue.Add(o.TotalValue)
		if o.Status == domain.PurchasePending {
			stats.Pending++
		}
	}
	return stats, nil
}

func (s *orderServiceImpl) ListSalesOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error) {
	orders, err := s.orderRepo.ListSalesOrders(ctx)
	if err != nil {
		return nil, err
	}
	orders = search.Filter(orders, filter.Query, func(o domain.SalesOrder) []string {
		return []string{o.Number, o.Customer}
	})
	if filter.Status != "" {
		out := orders[:0:0]
		for _, o := range orders {
			if strings.EqualFold(string(o.Status), filter.Status) {
				out = append(out, o)
			}
		}
		orders = out
	}
	return limit(orders, filter.Limit), nil
}

func (s *orderServiceImpl) GetSalesOrder(ctx context.Context, id string) (*domain.SalesOrder, error) {
	o, err := s.orderRepo.GetSalesOrderByID(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, apperror.NotFound("sales order not found", err)
	}
	return o, err
}

// SalesStats counts cancelled orders but leaves them out of revenue and profit.
func (s *orderServiceImpl) SalesStats(ctx context.Context) (*domain.SalesStats, error) {
	orders, err := s.orderRepo.ListSalesOrders(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.SalesStats{Count: len(orders), Revenue: decimal.Zero, Profit: decimal.Zero, MarginPercent: decimal.Zero}
	for _, o := range orders {
		if o.Status == domain.SalesDelivered {
			stats.Delivered++
		}
		if o.Status == domain.SalesCancelled {
			continue
		}
		stats.Revenue = stats.Revenue.Add(o.TotalValue)
		stats.Profit = stats.Profit.Add(o.Profit)
	}
	if stats.Revenue.IsPositive() {
		stats.MarginPercent = stats.Profit.Div(stats.Revenue).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return stats, nil
}

func (s *orderServiceImpl) CreateSalesOrder(ctx context.Context, req domain.CreateSalesOrderRequest) (*domain.SalesOrder, bool, error) {
	if strings.TrimSpace(req.Customer) == "" {
		return nil, false, apperror.Validation("customer is required", map[string]string{"customer": "required"})
	}
	if len(req.Items) == 0 {
		return nil, false, apperror.Validation("order must contain at least one item", map[string]string{"items": "min"})
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, len(req.Items))
	for i, itemReq := range req.Items {
		if itemReq.Quantity < 1 {
			return nil, false, apperror.Validation("item quantity must be at least 1", map[string]string{"items.quantity": "gt"})
		}
		if itemReq.UnitPrice.IsNegative() {
			return nil, false, apperror.Validation("item price must not be negative", map[string]string{"items.unit_price": "gte"})
		}
		lineTotal := itemReq.UnitPrice.Mul(decimal.NewFromInt(int64(itemReq.Quantity)))
		total = total.Add(lineTotal)
		items[i] = domain.OrderItem{
			ProductCode: itemReq.ProductCode,
			ProductName: itemReq.ProductName,
			Quantity:    itemReq.Quantity,
			UnitPrice:   itemReq.UnitPrice,
			Total:       lineTotal,
		}
	}

	order := &domain.SalesOrder{
		Customer:     req.Customer,
		DeliveryDate: req.DeliveryDate,
		Status:       domain.SalesConfirmed,
		TotalValue:   total,
		Profit:       decimal.Zero,
	}
	if req.QuotationID != "" {
		qid := req.QuotationID
		order.QuotationID = &qid
	}

	if err := s.orderRepo.CreateSalesOrderWithItems(ctx, order, items); err != nil {
		if errors.Is(err, repository.ErrQuotationAlreadyConverted) {
			return s.existingOrderFor(ctx, req.QuotationID, err)
		}
		logger.Error("CreateSalesOrder: failed to save order to repository", err, "customer", req.Customer)
		return nil, false, err
	}

	logger.Info("Sales order created", "order_id", order.ID, "order_number", order.Number, "quotation_id", req.QuotationID)
	return order, true, nil
}

// existingOrderFor returns the order already stored for quotationID, so a
// conversion retried after a partial failure can complete.
func (s *orderServiceImpl) existingOrderFor(ctx context.Context, quotationID string, cause error) (*domain.SalesOrder, bool, error) {
	existing, err := s.orderRepo.GetSalesOrderByQuotationID(ctx, quotationID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, false, apperror.Conflict("quotation already converted", cause)
		}
		logger.Error("CreateSalesOrder: failed to load existing order", err, "quotation_id", quotationID)
		return nil, false, err
	}
	logger.Info("Sales order already exists for quotation", "order_id", existing.ID, "quotation_id", quotationID)
	return existing, false, nil
}
