package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/models"
	"github.com/shopspring/decimal"
)

type CreateProductParams struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	BasePrice        decimal.Decimal  `json:"base_price"`
	DiscountPrice    *decimal.Decimal `json:"discount_price"`
	DiscountActive   bool             `json:"discount_active"`
	PurityPercentage decimal.Decimal  `json:"purity_percentage"`
	StockQuantity    int              `json:"stock_quantity"`
	ImageURL         *string          `json:"image_url"`
	Featured         bool             `json:"featured"`
	Available        bool             `json:"available"`
}

const productColumns = `id, name, description, category, base_price, discount_price, discount_active,
		purity_percentage, stock_quantity, image_url, featured, available, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, product *models.Product) error {
	return row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.BasePrice,
		&product.DiscountPrice,
		&product.DiscountActive,
		&product.PurityPercentage,
		&product.StockQuantity,
		&product.ImageURL,
		&product.Featured,
		&product.Available,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}

func CreateProduct(ctx context.Context, db *sql.DB, p CreateProductParams) (*models.Product, error) {
	product := &models.Product{}

	query := `
		INSERT INTO products (name, description, category, base_price, discount_price, discount_active,
			purity_percentage, stock_quantity, image_url, featured, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING ` + productColumns

	row := db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Category, p.BasePrice, p.DiscountPrice, p.DiscountActive,
		p.PurityPercentage, p.StockQuantity, p.ImageURL, p.Featured, p.Available)
	if err := scanProduct(row, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func AddVariation(ctx context.Context, db *sql.DB, productID uuid.UUID, name string, price decimal.Decimal, stock int) (*models.Variation, error) {
	v := &models.Variation{}

	query := `
		INSERT INTO product_variations (product_id, name, price, stock_quantity, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, product_id, name, price, stock_quantity`

	err := db.QueryRowContext(ctx, query, productID, name, price, stock).Scan(
		&v.ID,
		&v.ProductID,
		&v.Name,
		&v.Price,
		&v.StockQuantity,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("add variation: %w", err)
	}

	return v, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	if err := scanProduct(db.QueryRowContext(ctx, query, id), product); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	byProduct, err := listVariations(ctx, db, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	product.Variations = byProduct[id]

	return product, nil
}

// listVariations returns the variations of ids keyed by product, cheapest first.
func listVariations(ctx context.Context, db *sql.DB, ids []uuid.UUID) (map[uuid.UUID][]models.Variation, error) {
	out := make(map[uuid.UUID][]models.Variation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, product_id, name, price, stock_quantity
		 FROM product_variations
		 WHERE product_id = ANY($1::uuid[])
		 ORDER BY price, name`,
		pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("list variations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v models.Variation
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.StockQuantity); err != nil {
			return nil, fmt.Errorf("scan variation: %w", err)
		}
		out[v.ProductID] = append(out[v.ProductID], v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}

func queryProducts(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	byProduct, err := listVariations(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Variations = byProduct[products[i].ID]
	}

	return products, nil
}

// ListProducts pages through the products shoppers can see. Unavailable
// products are left out of both the page and the total.
func ListProducts(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE available`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	offset := (page - 1) * pageSize
	products, err := queryProducts(ctx, db,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE available
		 ORDER BY created_at DESC, id
		 LIMIT $1 OFFSET $2`,
		pageSize, offset)
	if err != nil {
		return nil, err
	}

	return &OffsetPage{
		Items:      products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ListCatalog returns every available product with its variations, the input
// the recommendation matcher scans.
func ListCatalog(ctx context.Context, db *sql.DB) ([]models.Product, error) {
	return queryProducts(ctx, db,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE available
		 ORDER BY name, id`)
}
