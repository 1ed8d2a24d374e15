package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ridloal/factory-inventory/internal/catalog/domain"
	"github.com/ridloal/factory-inventory/internal/platform/database"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateCode   = errors.New("product code already exists")
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByCodes(ctx context.Context, codes []string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

const productColumns = `id, code, name, specifications, category, unit, stock, min_stock, unit_price, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Specifications, &p.Category, &p.Unit,
		&p.Stock, &p.MinStock, &p.UnitPrice, &p.CreatedAt, &p.UpdatedAt)
	p.Status = domain.StatusFor(p.Stock, p.MinStock)
	return p, err
}

func (r *postgresProductRepository) queryProducts(ctx context.Context, op, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(op+": query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error(op+": scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error(op+": rows iteration error", err)
		return nil, err
	}
	return products, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY code ASC`
	return r.queryProducts(ctx, "ListProducts", query)
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err, "product_id", id)
		return nil, err
	}
	return &p, nil
}

// GetProductsByCodes matches codes case-insensitively. Unknown codes are
// simply absent from the result.
func (r *postgresProductRepository) GetProductsByCodes(ctx context.Context, codes []string) ([]domain.Product, error) {
	lowered := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			lowered = append(lowered, strings.ToLower(c))
		}
	}
	if len(lowered) == 0 {
		return []domain.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE lower(code) = ANY($1) ORDER BY code ASC`
	return r.queryProducts(ctx, "GetProductsByCodes", query, pq.Array(lowered))
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (code, name, specifications, category, unit, stock, min_stock, unit_price, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		product.Code, product.Name, product.Specifications, product.Category, product.Unit,
		product.Stock, product.MinStock, product.UnitPrice, now, now,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateCode
		}
		logger.Error("CreateProduct: insert failed", err, "code", product.Code)
		return err
	}
	return nil
}
