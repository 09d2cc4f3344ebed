package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/models"
)

// PlaceholderQRCodeURL stands in for a missing QR image; the column is NOT NULL.
const PlaceholderQRCodeURL = "https://images.pexels.com/photos/8867482/pexels-photo-8867482.jpeg?auto=compress&cs=tinysrgb&w=300&h=300&fit=crop"

type PaymentMethodInput struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	QRCodeURL     string `json:"qr_code_url"`
	Active        bool   `json:"active"`
	SortOrder     int    `json:"sort_order"`
}

func (in PaymentMethodInput) qrCodeURL() string {
	if url := strings.TrimSpace(in.QRCodeURL); url != "" {
		return url
	}
	return PlaceholderQRCodeURL
}

const paymentMethodColumns = `id, name, account_number, account_name, qr_code_url, active, sort_order, created_at, updated_at`

func scanPaymentMethod(row rowScanner, m *models.PaymentMethod) error {
	return row.Scan(
		&m.ID,
		&m.Name,
		&m.AccountNumber,
		&m.AccountName,
		&m.QRCodeURL,
		&m.Active,
		&m.SortOrder,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

func queryPaymentMethods(ctx context.Context, db *sql.DB, query string) ([]models.PaymentMethod, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := scanPaymentMethod(rows, &m); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return methods, nil
}

func ListActivePaymentMethods(ctx context.Context, db *sql.DB) ([]models.PaymentMethod, error) {
	return queryPaymentMethods(ctx, db,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE active ORDER BY sort_order, name`)
}

func ListAllPaymentMethods(ctx context.Context, db *sql.DB) ([]models.PaymentMethod, error) {
	return queryPaymentMethods(ctx, db,
		`SELECT `+paymentMethodColumns+` FROM payment_methods ORDER BY sort_order, name`)
}

func CreatePaymentMethod(ctx context.Context, db *sql.DB, in PaymentMethodInput) (*models.PaymentMethod, error) {
	m := &models.PaymentMethod{}

	row := db.QueryRowContext(ctx,
		`INSERT INTO payment_methods (name, account_number, account_name, qr_code_url, active, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		 RETURNING `+paymentMethodColumns,
		in.Name, in.AccountNumber, in.AccountName, in.qrCodeURL(), in.Active, in.SortOrder)
	if err := scanPaymentMethod(row, m); err != nil {
		return nil, fmt.Errorf("create payment method: %w", err)
	}

	return m, nil
}

func UpdatePaymentMethod(ctx context.Context, db *sql.DB, id uuid.UUID, in PaymentMethodInput) (*models.PaymentMethod, error) {
	m := &models.PaymentMethod{}

	row := db.QueryRowContext(ctx,
		`UPDATE payment_methods
		 SET name = $1, account_number = $2, account_name = $3, qr_code_url = $4,
		     active = $5, sort_order = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING `+paymentMethodColumns,
		in.Name, in.AccountNumber, in.AccountName, in.qrCodeURL(), in.Active, in.SortOrder, id)
	if err := scanPaymentMethod(row, m); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("update payment method: %w", err)
	}

	return m, nil
}

func DeletePaymentMethod(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	result, err := db.ExecContext(ctx, `DELETE FROM payment_methods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrPaymentMethodNotFound
	}

	return nil
}
