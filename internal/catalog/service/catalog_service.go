package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ridloal/factory-inventory/internal/catalog/domain"
	"github.com/ridloal/factory-inventory/internal/catalog/repository"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
	"github.com/ridloal/factory-inventory/internal/platform/search"
)

type CatalogService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	LookupByCodes(ctx context.Context, codes []string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
	Stats(ctx context.Context) (*domain.CatalogStats, error)
}

type catalogServiceImpl struct {
	repo repository.ProductRepository
}

func NewCatalogService(repo repository.ProductRepository) CatalogService {
	return &catalogServiceImpl{repo: repo}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.Validation("invalid stock status", map[string]string{"status": "oneof"})
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	products = search.Filter(products, filter.Query, func(p domain.Product) []string {
		return []string{p.Name, p.Code, p.Category}
	})
	if filter.Status == "" {
		return products, nil
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Status == filter.Status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.NotFound("product not found", err)
		}
		return nil, err
	}
	return p, nil
}

func (s *catalogServiceImpl) LookupByCodes(ctx context.Context, codes []string) ([]domain.Product, error) {
	return s.repo.GetProductsByCodes(ctx, codes)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, apperror.FromValidator(err)
	}

	product := domain.NewProduct(draft)
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, apperror.Conflict("product code already exists", err)
		}
		logger.Error("Svc.CreateProduct: repo error", err, "code", draft.Code)
		return nil, err
	}

	logger.Info("Product created", "product_id", product.ID, "code", product.Code)
	return product, nil
}

func (s *catalogServiceImpl) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.CatalogStats{TotalProducts: len(products), InventoryValue: decimal.Zero}
	for _, p := range products {
		stats.InventoryValue = stats.InventoryValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Stock))))
		switch p.Status {
		case domain.StockLow:
			stats.LowStock++
		case domain.StockOutOfStock:
			stats.OutOfStock++
		}
	}
	return stats, nil
}
