package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/models"
)

const orderColumns = `id, customer_name, customer_email, customer_phone, shipping_address, shipping_barangay,
		shipping_city, shipping_state, shipping_zip_code, shipping_location, shipping_fee, total_price,
		payment_method_id, payment_method_name, contact_method, notes, order_status, payment_status, created_at`

func scanOrder(row rowScanner, order *models.Order) error {
	return row.Scan(
		&order.ID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.ShippingAddress,
		&order.ShippingBarangay,
		&order.ShippingCity,
		&order.ShippingState,
		&order.ShippingZipCode,
		&order.ShippingLocation,
		&order.ShippingFee,
		&order.TotalPrice,
		&order.PaymentMethodID,
		&order.PaymentMethodName,
		&order.ContactMethod,
		&order.Notes,
		&order.OrderStatus,
		&order.PaymentStatus,
		&order.CreatedAt,
	)
}

// CreateOrder writes order and its items in one transaction. The id and
// creation time are assigned by the database.
func CreateOrder(ctx context.Context, db *sql.DB, order models.Order) (*models.Order, error) {
	created := order

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (customer_name, customer_email, customer_phone, shipping_address,
				shipping_barangay, shipping_city, shipping_state, shipping_zip_code, shipping_location,
				shipping_fee, total_price, payment_method_id, payment_method_name, contact_method, notes,
				order_status, payment_status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
			 RETURNING id, created_at`,
			order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.ShippingAddress,
			order.ShippingBarangay, order.ShippingCity, order.ShippingState, order.ShippingZipCode,
			order.ShippingLocation, order.ShippingFee, order.TotalPrice, order.PaymentMethodID,
			order.PaymentMethodName, order.ContactMethod, order.Notes, order.OrderStatus,
			order.PaymentStatus).Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i, item := range order.Items {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, position, product_id, product_name, variation_id,
					variation_name, quantity, price, total, purity_percentage)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				created.ID, i, item.ProductID, item.ProductName, item.VariationID, item.VariationName,
				item.Quantity, item.Price, item.Total, item.PurityPercentage)
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func GetOrder(ctx context.Context, db *sql.DB, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	if err := scanOrder(db.QueryRowContext(ctx, query, id), order); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemsQuery := `
		SELECT product_id, product_name, variation_id, variation_name, quantity, price, total, purity_percentage
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`

	rows, err := db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ProductID,
			&item.ProductName,
			&item.VariationID,
			&item.VariationName,
			&item.Quantity,
			&item.Price,
			&item.Total,
			&item.PurityPercentage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	order.Items = items

	return order, nil
}

// ListOrdersCursor pages through orders newest first. Items are not loaded.
func ListOrdersCursor(ctx context.Context, db *sql.DB, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor, time.Now())
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE (created_at, id) < ($1, $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	rows, err := db.QueryContext(ctx, query, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}
