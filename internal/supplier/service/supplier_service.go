package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"

	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/platform/search"
	"github.com/ridloal/factory-inventory/internal/supplier/domain"
	"github.com/ridloal/factory-inventory/internal/supplier/repository"
)

type SupplierService interface {
	ListSuppliers(ctx context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, id string) (*domain.Supplier, error)
	Stats(ctx context.Context) (*domain.SupplierStats, error)
}

type supplierServiceImpl struct {
	repo        repository.SupplierRepository
	phoneRegion string
}

func NewSupplierService(repo repository.SupplierRepository, phoneRegion string) SupplierService {
	return &supplierServiceImpl{repo: repo, phoneRegion: phoneRegion}
}

// normalizePhone fills the E.164 rendering of the stored phone number. Numbers
// libphonenumber cannot parse are kept verbatim and flagged invalid.
func (s *supplierServiceImpl) normalizePhone(sup *domain.Supplier) {
	sup.PhoneE164 = ""
	sup.PhoneValid = false
	raw := strings.TrimSpace(sup.Phone)
	if raw == "" {
		return
	}
	num, err := libphonenumber.Parse(raw, s.phoneRegion)
	if err != nil {
		return
	}
	sup.PhoneValid = libphonenumber.IsValidNumber(num)
	sup.PhoneE164 = libphonenumber.Format(num, libphonenumber.E164)
}

func (s *supplierServiceImpl) ListSuppliers(ctx context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}

	suppliers = search.Filter(suppliers, filter.Query, func(sup domain.Supplier) []string {
		return []string{sup.Name, sup.Contact, sup.Category}
	})

	out := make([]domain.Supplier, 0, len(suppliers))
	for _, sup := range suppliers {
		if filter.Status != "" && sup.Status != filter.Status {
			continue
		}
		s.normalizePhone(&sup)
		out = append(out, sup)
	}
	return out, nil
}

func (s *supplierServiceImpl) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	sup, err := s.repo.GetSupplierByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			return nil, apperror.NotFound("supplier not found", err)
		}
		return nil, err
	}
	s.normalizePhone(sup)
	return sup, nil
}

func (s *supplierServiceImpl) Stats(ctx context.Context) (*domain.SupplierStats, error) {
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.SupplierStats{Total: len(suppliers), AverageRating: decimal.Zero, TotalValue: decimal.Zero}
	ratingSum := decimal.Zero
	for _, sup := range suppliers {
		if sup.Status == domain.StatusActive {
			stats.Active++
		}
		ratingSum = ratingSum.Add(sup.Rating)
		stats.TotalValue = stats.TotalValue.Add(sup.TotalValue)
	}
	if len(suppliers) > 0 {
		stats.AverageRating = ratingSum.Div(decimal.NewFromInt(int64(len(suppliers)))).Round(1)
	}
	return stats, nil
}
