package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ridloal/factory-inventory/internal/platform/database"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
	"github.com/ridloal/factory-inventory/internal/supplier/domain"
)

var ErrSupplierNotFound = errors.New("supplier not found")

type SupplierRepository interface {
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	GetSupplierByID(ctx context.Context, id string) (*domain.Supplier, error)
}

type postgresSupplierRepository struct {
	db *sql.DB
}

func NewPostgresSupplierRepository(db *sql.DB) SupplierRepository {
	return &postgresSupplierRepository{db: db}
}

const supplierColumns = `id, name, contact, phone, email, address, category, rating, orders, total_value, status, last_order, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSupplier(row rowScanner) (domain.Supplier, error) {
	var s domain.Supplier
	var lastOrder sql.NullTime
	err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.Phone, &s.Email, &s.Address, &s.Category,
		&s.Rating, &s.Orders, &s.TotalValue, &s.Status, &lastOrder, &s.CreatedAt, &s.UpdatedAt)
	if lastOrder.Valid {
		s.LastOrder = &lastOrder.Time
	}
	return s, err
}

func (r *postgresSupplierRepository) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListSuppliers: query failed", err)
		return nil, err
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			logger.Error("ListSuppliers: scan failed", err)
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *postgresSupplierRepository) GetSupplierByID(ctx context.Context, id string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	s, err := scanSupplier(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return nil, ErrSupplierNotFound
		}
		logger.Error("GetSupplierByID: query failed", err, "supplier_id", id)
		return nil, err
	}
	return &s, nil
}
