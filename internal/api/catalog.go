package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/safar/storefront/internal/assessment"
	"github.com/safar/storefront/internal/content"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/models"
	"github.com/safar/storefront/internal/recommend"
	"github.com/safar/storefront/internal/store"
	"go.uber.org/zap"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	result, err := store.ListProducts(r.Context(), s.db, page, pageSize)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := store.GetProduct(r.Context(), s.db, id)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if !product.Available {
		s.respondErr(w, database.ErrProductNotFound)
		return
	}

	s.respondJSON(w, http.StatusOK, product)
}

type contentResponse[T any] struct {
	Items    []T    `json:"items"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// respondContent writes a read accessor result. Degraded reads still answer
// 200 with the fallback flag set; only a fatal result is an error.
func respondContent[T any](s *Server, w http.ResponseWriter, name string, res content.Result[T]) {
	switch res.Status {
	case content.StatusFatal:
		s.logger.Warn("content read abandoned", zap.String("content", name), zap.Error(res.Reason))
		s.respondError(w, http.StatusServiceUnavailable, "Request cancelled")
		return
	case content.StatusFallback:
		s.logger.Warn("serving fallback content", zap.String("content", name), zap.Error(res.Reason))
	}

	out := contentResponse[T]{Items: res.Items, Fallback: res.Fallback()}
	if res.Fallback() {
		out.Reason = res.Reason.Error()
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) activePaymentMethods(ctx context.Context) content.Result[models.PaymentMethod] {
	return content.PaymentMethods(ctx, func(ctx context.Context) ([]models.PaymentMethod, error) {
		return store.ListActivePaymentMethods(ctx, s.db)
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	res := content.Categories(r.Context(), func(ctx context.Context) ([]models.Category, error) {
		return store.ListActiveCategories(ctx, s.db)
	})
	respondContent(s, w, "categories", res)
}

func (s *Server) handleFAQs(w http.ResponseWriter, r *http.Request) {
	res := content.FAQs(r.Context(), func(ctx context.Context) ([]models.FAQ, error) {
		return store.ListActiveFAQs(ctx, s.db)
	})

	if res.Status == content.StatusFatal {
		respondContent(s, w, "faqs", res)
		return
	}
	if res.Fallback() {
		s.logger.Warn("serving fallback content", zap.String("content", "faqs"), zap.Error(res.Reason))
	}

	s.respondJSON(w, http.StatusOK, struct {
		contentResponse[models.FAQ]
		Categories []string `json:"categories"`
	}{
		contentResponse: contentResponse[models.FAQ]{
			Items:    res.Items,
			Fallback: res.Fallback(),
			Reason:   reasonText(res.Reason),
		},
		Categories: content.FAQCategories(res.Items),
	})
}

func reasonText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (s *Server) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	respondContent(s, w, "payment_methods", s.activePaymentMethods(r.Context()))
}

type goalView struct {
	Name     recommend.Goal `json:"name"`
	Keywords []string       `json:"keywords"`
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	goals := recommend.Goals()
	out := make([]goalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalView{Name: g, Keywords: recommend.Keywords(g)})
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goals []string `json:"goals"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goals := recommend.ParseGoals(req.Goals)
	for _, g := range goals {
		if !recommend.Known(g) {
			s.respondErr(w, fmt.Errorf("goal %q: %w", g, assessment.ErrUnknownGoal))
			return
		}
	}

	catalog := s.catalogOrEmpty(r.Context())
	s.respondJSON(w, http.StatusOK, recommend.Recommend(goals, catalog))
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	var form assessment.Form
	if err := decodeJSON(r, &form); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	form.Goals = recommend.ParseGoals(goalNames(form.Goals))

	if err := form.Validate(); err != nil {
		s.respondErr(w, err)
		return
	}

	ctx := r.Context()
	catalog := s.catalogOrEmpty(ctx)

	outcome, err := assessment.Submit(ctx, form, store.Assessments{DB: s.db}, catalog, s.now())
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if outcome.SaveErr != nil {
		s.logger.Warn("assessment not recorded", zap.Error(outcome.SaveErr))
	}

	s.respondJSON(w, http.StatusCreated, outcome)
}

// catalogOrEmpty reads the available catalog for recommendations. A failed
// read yields an empty catalog so the caller still answers.
func (s *Server) catalogOrEmpty(ctx context.Context) []models.Product {
	catalog, err := store.ListCatalog(ctx, s.db)
	if err != nil {
		s.logger.Warn("catalog unavailable, recommending from an empty catalog", zap.Error(err))
		return nil
	}
	return catalog
}

func goalNames(goals []recommend.Goal) []string {
	names := make([]string, len(goals))
	for i, g := range goals {
		names[i] = string(g)
	}
	return names
}
