package service

import (
	"context"
	"net/http"
	"net/url"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
	order "github.com/ridloal/factory-inventory/internal/order/domain"
	"github.com/ridloal/factory-inventory/internal/platform/httpclient"
)

type CatalogClient interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	LookupByCodes(ctx context.Context, codes []string) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, draft catalog.ProductDraft) (*catalog.Product, error)
}

type OrderClient interface {
	CreateSalesOrder(ctx context.Context, req order.CreateSalesOrderRequest) (*order.SalesOrder, error)
}

type httpCatalogClient struct {
	client *httpclient.Client
}

func NewHTTPCatalogClient(baseURL string) CatalogClient {
	return &httpCatalogClient{client: httpclient.New(baseURL, httpclient.DefaultTimeout)}
}

func (c *httpCatalogClient) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.client.Do(ctx, http.MethodGet, "/api/v1/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *httpCatalogClient) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var p catalog.Product
	if err := c.client.Do(ctx, http.MethodGet, "/api/v1/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *httpCatalogClient) LookupByCodes(ctx context.Context, codes []string) ([]catalog.Product, error) {
	var products []catalog.Product
	req := catalog.LookupRequest{Codes: codes}
	if err := c.client.Do(ctx, http.MethodPost, "/api/v1/products/lookup", req, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *httpCatalogClient) CreateProduct(ctx context.Context, draft catalog.ProductDraft) (*catalog.Product, error) {
	var p catalog.Product
	if err := c.client.Do(ctx, http.MethodPost, "/api/v1/products", draft, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type httpOrderClient struct {
	client *httpclient.Client
}

func NewHTTPOrderClient(baseURL string) OrderClient {
	return &httpOrderClient{client: httpclient.New(baseURL, httpclient.DefaultTimeout)}
}

func (c *httpOrderClient) CreateSalesOrder(ctx context.Context, req order.CreateSalesOrderRequest) (*order.SalesOrder, error) {
	var so order.SalesOrder
	if err := c.client.Do(ctx, http.MethodPost, "/api/v1/sales-orders", req, &so); err != nil {
		return nil, err
	}
	return &so, nil
}
