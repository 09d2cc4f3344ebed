package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/models"
)

type FAQInput struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
	OrderIndex int    `json:"order_index"`
	IsActive   bool   `json:"is_active"`
}

const faqColumns = `id, question, answer, category, order_index, is_active, created_at, updated_at`

func scanFAQ(row rowScanner, f *models.FAQ) error {
	return row.Scan(
		&f.ID,
		&f.Question,
		&f.Answer,
		&f.Category,
		&f.OrderIndex,
		&f.IsActive,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

func queryFAQs(ctx context.Context, db *sql.DB, query string) ([]models.FAQ, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer rows.Close()

	var faqs []models.FAQ
	for rows.Next() {
		var f models.FAQ
		if err := scanFAQ(rows, &f); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return faqs, nil
}

func ListActiveFAQs(ctx context.Context, db *sql.DB) ([]models.FAQ, error) {
	return queryFAQs(ctx, db,
		`SELECT `+faqColumns+` FROM faqs WHERE is_active ORDER BY order_index, created_at`)
}

func ListAllFAQs(ctx context.Context, db *sql.DB) ([]models.FAQ, error) {
	return queryFAQs(ctx, db,
		`SELECT `+faqColumns+` FROM faqs ORDER BY order_index, created_at`)
}

func CreateFAQ(ctx context.Context, db *sql.DB, in FAQInput) (*models.FAQ, error) {
	f := &models.FAQ{}

	row := db.QueryRowContext(ctx,
		`INSERT INTO faqs (question, answer, category, order_index, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		 RETURNING `+faqColumns,
		in.Question, in.Answer, in.Category, in.OrderIndex, in.IsActive)
	if err := scanFAQ(row, f); err != nil {
		return nil, fmt.Errorf("create faq: %w", err)
	}

	return f, nil
}

func UpdateFAQ(ctx context.Context, db *sql.DB, id uuid.UUID, in FAQInput) (*models.FAQ, error) {
	f := &models.FAQ{}

	row := db.QueryRowContext(ctx,
		`UPDATE faqs
		 SET question = $1, answer = $2, category = $3, order_index = $4, is_active = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING `+faqColumns,
		in.Question, in.Answer, in.Category, in.OrderIndex, in.IsActive, id)
	if err := scanFAQ(row, f); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrFAQNotFound
		}
		return nil, fmt.Errorf("update faq: %w", err)
	}

	return f, nil
}

func DeleteFAQ(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	result, err := db.ExecContext(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrFAQNotFound
	}

	return nil
}
