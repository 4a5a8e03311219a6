package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecomcore/storefront/internal/models"
)

// ErrInsufficientStock is returned when an order asks for more units than a
// product has left.
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create persists the order with its lines and decrements stock, all in one
// transaction. Stock rows are locked before the check so two concurrent
// checkouts cannot both take the last unit.
func (r *OrderRepo) Create(ctx context.Context, o *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, line := range o.Lines {
		if err := decrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, total, created_at) VALUES ($1, $2, $3, $4)`,
		o.ID, o.UserID, o.Total, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range o.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO product_orders (order_id, product_id, name, price, quantity, promotion)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, o.ID, line.ProductID, line.Name, line.Price, line.Quantity, line.Promotion)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx commit: %w", err)
	}
	committed = true
	return nil
}

func decrementStock(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	var available int
	err := tx.QueryRowContext(ctx,
		`SELECT quantity FROM products WHERE id = $1 FOR UPDATE`, productID,
	).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %s: %w", productID, sql.ErrNoRows)
		}
		return err
	}
	if available < quantity {
		return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE products SET quantity = quantity - $2, updated_at = NOW() WHERE id = $1`,
		productID, quantity,
	)
	return err
}

// GetByID returns nil, nil when no order exists with that id.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, total, created_at FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, price, quantity, promotion
		FROM product_orders
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.ProductID, &line.Name, &line.Price, &line.Quantity, &line.Promotion); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	return &o, rows.Err()
}

// ListByUser returns a user's orders, newest first, without lines.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
