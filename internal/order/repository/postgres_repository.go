package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ridloal/factory-inventory/internal/order/domain"
	"github.com/ridloal/factory-inventory/internal/platform/database"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
)

var (
	ErrOrderNotFound             = errors.New("order not found")
	ErrQuotationAlreadyConverted = errors.New("quotation already converted to a sales order")
)

type OrderRepository interface {
	ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error)
	GetPurchaseOrderByID(ctx context.Context, id string) (*domain.PurchaseOrder, error)
	ListSalesOrders(ctx context.Context) ([]domain.SalesOrder, error)
	GetSalesOrderByID(ctx context.Context, id string) (*domain.SalesOrder, error)
	GetSalesOrderByQuotationID(ctx context.Context, quotationID string) (*domain.SalesOrder, error)
	CreateSalesOrderWithItems(ctx context.Context, order *domain.SalesOrder, items []domain.OrderItem) error
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	query := `SELECT id, order_number, supplier, order_date, expected_date, status, total_value, created_at, updated_at
              FROM purchase_orders ORDER BY order_date DESC, order_number DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListPurchaseOrders: query failed", err)
		return nil, err
	}
	defer rows.Close()

	orders := []domain.PurchaseOrder{}
	for rows.Next() {
		var o domain.PurchaseOrder
		var expected sql.NullTime
		if err := rows.Scan(&o.ID, &o.Number, &o.Supplier, &o.OrderDate, &expected, &o.Status, &o.TotalValue, &o.CreatedAt, &o.UpdatedAt); err != nil {
			logger.Error("ListPurchaseOrders: scan failed", err)
			return nil, err
		}
		if expected.Valid {
			o.ExpectedDate = &expected.Time
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresOrderRepository) GetPurchaseOrderByID(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	query := `SELECT id, order_number, supplier, order_date, expected_date, status, total_value, created_at, updated_at
              FROM purchase_orders WHERE id = $1`
	var o domain.PurchaseOrder
	var expected sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.Number, &o.Supplier, &o.OrderDate, &expected, &o.Status, &o.TotalValue, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return nil, ErrOrderNotFound
		}
		logger.Error("GetPurchaseOrderByID: query failed", err, "order_id", id)
		return nil, err
	}
	if expected.Valid {
		o.ExpectedDate = &expected.Time
	}

	o.Items, err = r.getItems(ctx, "purchase_order_items", o.ID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresOrderRepository) ListSalesOrders(ctx context.Context) ([]domain.SalesOrder, error) {
	query := `SELECT id, order_number, customer, order_date, delivery_date, status, total_value, profit, quotation_id, created_at, updated_at
              FROM sales_orders ORDER BY order_date DESC, order_number DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListSalesOrders: query failed", err)
		return nil, err
	}
	defer rows.Close()

	orders := []domain.SalesOrder{}
	for rows.Next() {
		o, err := scanSalesOrder(rows)
		if err != nil {
			logger.Error("ListSalesOrders: scan failed", err)
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresOrderRepository) GetSalesOrderByID(ctx context.Context, id string) (*domain.SalesOrder, error) {
	return r.getSalesOrder(ctx, "id", id)
}

func (r *postgresOrderRepository) GetSalesOrderByQuotationID(ctx context.Context, quotationID string) (*domain.SalesOrder, error) {
	return r.getSalesOrder(ctx, "quotation_id", quotationID)
}

// getSalesOrder loads one order and its lines. column is a fixed key column,
// never user input.
func (r *postgresOrderRepository) getSalesOrder(ctx context.Context, column, value string) (*domain.SalesOrder, error) {
	query := `SELECT id, order_number, customer, order_date, delivery_date, status, total_value, profit, quotation_id, created_at, updated_at
              FROM sales_orders WHERE ` + column + ` = $1`
	o, err := scanSalesOrder(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return nil, ErrOrderNotFound
		}
		logger.Error("getSalesOrder: query failed", err, column, value)
		return nil, err
	}

	o.Items, err = r.getItems(ctx, "sales_order_items", o.ID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSalesOrder(row rowScanner) (domain.SalesOrder, error) {
	var o domain.SalesOrder
	var delivery sql.NullTime
	var quotationID sql.NullString
	err := row.Scan(&o.ID, &o.Number, &o.Customer, &o.OrderDate, &delivery, &o.Status, &o.TotalValue, &o.Profit, &quotationID, &o.CreatedAt, &o.UpdatedAt)
	if delivery.Valid {
		o.DeliveryDate = &delivery.Time
	}
	if quotationID.Valid {
		o.QuotationID = &quotationID.String
	}
	return o, err
}

// getItems reads the lines of one order. table is one of the two fixed item
// tables, never user input.
func (r *postgresOrderRepository) getItems(ctx context.Context, table, orderID string) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, product_code, product_name, quantity, unit_price, total
              FROM ` + table + ` WHERE order_id = $1 ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		logger.Error("getItems: query failed", err, "table", table, "order_id", orderID)
		return nil, err
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var i domain.OrderItem
		if err := rows.Scan(&i.ID, &i.OrderID, &i.ProductCode, &i.ProductName, &i.Quantity, &i.UnitPrice, &i.Total); err != nil {
			logger.Error("getItems: scan failed", err, "table", table)
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// CreateSalesOrderWithItems stores the order and its lines in one
// transaction. The order number is drawn from a per-year sequence.
func (r *postgresOrderRepository) CreateSalesOrderWithItems(ctx context.Context, order *domain.SalesOrder, items []domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CreateSalesOrderWithItems: failed to begin tx", err)
		return err
	}
	defer tx.Rollback()

	orderQuery := `INSERT INTO sales_orders (order_number, customer, order_date, delivery_date, status, total_value, profit, quotation_id, created_at, updated_at)
                   VALUES ('SO-' || to_char($2::timestamptz, 'YYYY') || '-' || lpad(nextval('sales_order_number_seq')::text, 3, '0'),
                           $1, $2, $3, $4, $5, $6, $7, $8, $8)
                   RETURNING id, order_number, created_at, updated_at`

	now := time.Now()
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	var quotationID sql.NullString
	if order.QuotationID != nil {
		quotationID = sql.NullString{String: *order.QuotationID, Valid: true}
	}
	var delivery sql.NullTime
	if order.DeliveryDate != nil {
		delivery = sql.NullTime{Time: *order.DeliveryDate, Valid: true}
	}

	err = tx.QueryRowContext(ctx, orderQuery, order.Customer, order.OrderDate, delivery, order.Status,
		order.TotalValue, order.Profit, quotationID, now).
		Scan(&order.ID, &order.Number, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "sales_orders_quotation_id_key") {
			return ErrQuotationAlreadyConverted
		}
		logger.Error("CreateSalesOrderWithItems: failed to insert order", err)
		return err
	}

	itemStmt, err := tx.PrepareContext(ctx, `INSERT INTO sales_order_items (order_id, position, product_code, product_name, quantity, unit_price, total)
                                            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`)
	if err != nil {
		logger.Error("CreateSalesOrderWithItems: failed to prepare item statement", err)
		return err
	}
	defer itemStmt.Close()

	for i := range items {
		items[i].OrderID = order.ID
		err = itemStmt.QueryRowContext(ctx, order.ID, i, items[i].ProductCode, items[i].ProductName,
			items[i].Quantity, items[i].UnitPrice, items[i].Total).Scan(&items[i].ID)
		if err != nil {
			logger.Error("CreateSalesOrderWithItems: failed to insert order item", err, "product_code", items[i].ProductCode)
			return err
		}
	}
	order.Items = items

	return tx.Commit()
}
