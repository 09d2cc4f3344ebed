package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/safar/storefront/internal/models"
)

func CreateAssessmentResponse(ctx context.Context, db *sql.DB, resp models.AssessmentResponse) (*models.AssessmentResponse, error) {
	prefs, err := json.Marshal(resp.Preferences)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}

	goals := resp.Goals
	if goals == nil {
		goals = []string{}
	}
	medical := resp.MedicalHistory
	if medical == nil {
		medical = []string{}
	}

	createdAt := sql.NullTime{Time: resp.CreatedAt, Valid: !resp.CreatedAt.IsZero()}

	created := resp
	err = db.QueryRowContext(ctx,
		`INSERT INTO assessment_responses (full_name, email, age_range, location, goals, medical_history,
			experience_level, preferences, consent_agreed, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11::timestamptz, NOW()))
		 RETURNING id, created_at`,
		resp.FullName, resp.Email, resp.AgeRange, resp.Location, pq.Array(goals), pq.Array(medical),
		resp.ExperienceLevel, string(prefs), resp.ConsentAgreed, resp.Status, createdAt).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create assessment response: %w", err)
	}

	return &created, nil
}
