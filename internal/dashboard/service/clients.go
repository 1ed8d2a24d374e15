package service

import (
	"context"
	"fmt"
	"net/http"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
	order "github.com/ridloal/factory-inventory/internal/order/domain"
	"github.com/ridloal/factory-inventory/internal/platform/httpclient"
	supplier "github.com/ridloal/factory-inventory/internal/supplier/domain"
)

type CatalogSource interface {
	Stats(ctx context.Context) (*catalog.CatalogStats, error)
	LowStock(ctx context.Context) ([]catalog.Product, error)
}

type SupplierSource interface {
	Stats(ctx context.Context) (*supplier.SupplierStats, error)
}

type OrderSource interface {
	ProcurementStats(ctx context.Context) (*order.ProcurementStats, error)
	SalesStats(ctx context.Context) (*order.SalesStats, error)
	RecentPurchaseOrders(ctx context.Context, n int) ([]order.PurchaseOrder, error)
	RecentSalesOrders(ctx context.Context, n int) ([]order.SalesOrder, error)
}

type httpCatalogSource struct{ client *httpclient.Client }

func NewHTTPCatalogSource(baseURL string) CatalogSource {
	return &httpCatalogSource{client: httpclient.New(baseURL, httpclient.DefaultTimeout)}
}

func (s *httpCatalogSource) Stats(ctx context.Context) (*catalog.CatalogStats, error) {
	var stats catalog.CatalogStats
	if err := s.client.Do(ctx, http.MethodGet, "/api/v1/products/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *httpCatalogSource) LowStock(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	path := "/api/v1/products?status=" + string(catalog.StockLow)
	if err := s.client.Do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

type httpSupplierSource struct{ client *httpclient.Client }

func NewHTTPSupplierSource(baseURL string) SupplierSource {
	return &httpSupplierSource{client: httpclient.New(baseURL, httpclient.DefaultTimeout)}
}

func (s *httpSupplierSource) Stats(ctx context.Context) (*supplier.SupplierStats, error) {
	var stats supplier.SupplierStats
	if err := s.client.Do(ctx, http.MethodGet, "/api/v1/suppliers/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

type httpOrderSource struct{ client *httpclient.Client }

func NewHTTPOrderSource(baseURL string) OrderSource {
	return &httpOrderSource{client: httpclient.New(baseURL, httpclient.DefaultTimeout)}
}

func (s *httpOrderSource) ProcurementStats(ctx context.Context) (*order.ProcurementStats, error) {
	var stats order.ProcurementStats
	if err := s.client.Do(ctx, http.MethodGet, "/api/v1/purchase-orders/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *httpOrderSource) SalesStats(ctx context.Context) (*order.SalesStats, error) {
	var stats order.SalesStats
	if err := s.client.Do(ctx, http.MethodGet, "/api/v1/sales-orders/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *httpOrderSource) RecentPurchaseOrders(ctx context.Context, n int) ([]order.PurchaseOrder, error) {
	var orders []order.PurchaseOrder
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/purchase-orders?limit=%d", n), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *httpOrderSource) RecentSalesOrders(ctx context.Context, n int) ([]order.SalesOrder, error) {
	var orders []order.SalesOrder
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/sales-orders?limit=%d", n), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
