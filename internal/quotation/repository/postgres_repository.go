package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridloal/factory-inventory/internal/platform/database"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
	"github.com/ridloal/factory-inventory/internal/quotation/domain"
)

var (
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrStatusChanged     = errors.New("quotation status changed concurrently")
)

type QuotationRepository interface {
	CreateQuotation(ctx context.Context, q *domain.Quotation) error
	ListQuotations(ctx context.Context) ([]domain.Quotation, error)
	GetQuotationByID(ctx context.Context, id string) (*domain.Quotation, error)
	// SaveItems replaces the stored lines and totals and moves the quotation
	// to status, all in one transaction.
	SaveItems(ctx context.Context, id string, items []domain.LineItem, total decimal.Decimal, status domain.Status) error
	// UpdateStatus moves from -> to, failing with ErrStatusChanged when the
	// quotation is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status, convertedOrderID *string) error
}

type postgresQuotationRepository struct {
	db *sql.DB
}

func NewPostgresQuotationRepository(db *sql.DB) QuotationRepository {
	return &postgresQuotationRepository{db: db}
}

const quotationColumns = `id, quotation_number, customer_name, quotation_date, status, total_price, item_count, converted_order_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuotation(row rowScanner) (domain.Quotation, error) {
	var q domain.Quotation
	var orderID sql.NullString
	err := row.Scan(&q.ID, &q.Number, &q.CustomerName, &q.QuotationDate, &q.Status, &q.Total, &q.ItemCount, &orderID, &q.CreatedAt, &q.UpdatedAt)
	if orderID.Valid {
		q.ConvertedOrderID = &orderID.String
	}
	return q, err
}

func (r *postgresQuotationRepository) CreateQuotation(ctx context.Context, q *domain.Quotation) error {
	query := `INSERT INTO quotations (quotation_number, customer_name, quotation_date, status, total_price, item_count, created_at, updated_at)
              VALUES ('QT-' || to_char($2::date, 'YYYY') || '-' || lpad(nextval('quotation_number_seq')::text, 3, '0'),
                      $1, $2, $3, 0, 0, $4, $4)
              RETURNING id, quotation_number, total_price, created_at, updated_at`

	if q.Status == "" {
		q.Status = domain.StatusNew
	}
	err := r.db.QueryRowContext(ctx, query, q.CustomerName, q.QuotationDate, q.Status, time.Now()).
		Scan(&q.ID, &q.Number, &q.Total, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		logger.Error("CreateQuotation: insert failed", err, "customer", q.CustomerName)
		return err
	}
	return nil
}

func (r *postgresQuotationRepository) ListQuotations(ctx context.Context) ([]domain.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations ORDER BY quotation_date DESC, quotation_number DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListQuotations: query failed", err)
		return nil, err
	}
	defer rows.Close()

	quotations := []domain.Quotation{}
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			logger.Error("ListQuotations: scan failed", err)
			return nil, err
		}
		quotations = append(quotations, q)
	}
	return quotations, rows.Err()
}

func (r *postgresQuotationRepository) GetQuotationByID(ctx context.Context, id string) (*domain.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`
	q, err := scanQuotation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return nil, ErrQuotationNotFound
		}
		logger.Error("GetQuotationByID: query failed", err, "quotation_id", id)
		return nil, err
	}

	itemsQuery := `SELECT product_id, code, name, specifications, quantity, unit_price
                   FROM quotation_items WHERE quotation_id = $1 ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		logger.Error("GetQuotationByID: items query failed", err, "quotation_id", id)
		return nil, err
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var it domain.LineItem
		if err := rows.Scan(&it.ProductID, &it.Code, &it.Name, &it.Specifications, &it.Quantity, &it.UnitPrice); err != nil {
			logger.Error("GetQuotationByID: items scan failed", err)
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Subtotals are derived, never stored.
	q.Items = domain.NewLedger(items...).Items()
	return &q, nil
}

func (r *postgresQuotationRepository) SaveItems(ctx context.Context, id string, items []domain.LineItem, total decimal.Decimal, status domain.Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("SaveItems: failed to begin tx", err)
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE quotations SET total_price = $1, item_count = $2, status = $3, updated_at = NOW() WHERE id = $4`,
		total, len(items), status, id)
	if err != nil {
		logger.Error("SaveItems: update quotation failed", err, "quotation_id", id)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuotationNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, id); err != nil {
		logger.Error("SaveItems: delete items failed", err, "quotation_id", id)
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO quotation_items (quotation_id, position, product_id, code, name, specifications, quantity, unit_price)
                                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		logger.Error("SaveItems: failed to prepare item statement", err)
		return err
	}
	defer stmt.Close()

	for i, it := range items {
		if _, err := stmt.ExecContext(ctx, id, i, it.ProductID, it.Code, it.Name, it.Specifications, it.Quantity, it.UnitPrice); err != nil {
			logger.Error("SaveItems: insert item failed", err, "quotation_id", id, "product_id", it.ProductID)
			return err
		}
	}
	return tx.Commit()
}

func (r *postgresQuotationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, convertedOrderID *string) error {
	var orderID sql.NullString
	if convertedOrderID != nil {
		orderID = sql.NullString{String: *convertedOrderID, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE quotations SET status = $1, converted_order_id = COALESCE($2, converted_order_id), updated_at = NOW()
         WHERE id = $3 AND status = $4`,
		to, orderID, id, from)
	if err != nil {
		logger.Error("UpdateStatus: exec failed", err, "quotation_id", id, "to", to)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStatusChanged
	}
	return nil
}
