package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/storefront/internal/models"
)

func ListActiveCategories(ctx context.Context, db *sql.DB) ([]models.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, icon, sort_order, active
		 FROM categories
		 WHERE active
		 ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.SortOrder, &c.Active); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}

func CreateCategory(ctx context.Context, db *sql.DB, c models.Category) (*models.Category, error) {
	out := &models.Category{}

	err := db.QueryRowContext(ctx,
		`INSERT INTO categories (id, name, icon, sort_order, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, icon, sort_order, active`,
		c.ID, c.Name, c.Icon, c.SortOrder, c.Active).Scan(
		&out.ID,
		&out.Name,
		&out.Icon,
		&out.SortOrder,
		&out.Active,
	)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return out, nil
}
