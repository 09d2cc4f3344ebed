package store

import (
	"context"
	"database/sql"

	"github.com/safar/storefront/internal/models"
)

// Orders adapts CreateOrder to checkout.OrderSaver.
type Orders struct {
	DB *sql.DB
}

func (o Orders) SaveOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	return CreateOrder(ctx, o.DB, order)
}

// Assessments adapts CreateAssessmentResponse to assessment.ResponseSaver.
type Assessments struct {
	DB *sql.DB
}

func (a Assessments) SaveAssessment(ctx context.Context, resp models.AssessmentResponse) (*models.AssessmentResponse, error) {
	return CreateAssessmentResponse(ctx, a.DB, resp)
}
