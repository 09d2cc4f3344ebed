package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/models"
	"github.com/safar/storefront/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Server) handleAdminListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	page, err := store.ListOrdersCursor(r.Context(), s.db, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleAdminGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := store.GetOrder(r.Context(), s.db, id)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, order)
}

// respondWriteErr answers a failed admin write with the operator-facing
// description of what went wrong.
func (s *Server) respondWriteErr(w http.ResponseWriter, table string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("write failed", zap.String("table", table), zap.Error(err))
	}
	if status == http.StatusNotFound {
		s.respondError(w, status, err.Error())
		return
	}
	s.respondError(w, status, database.DescribeWriteError(table, err))
}

func validFAQ(in store.FAQInput) bool {
	return strings.TrimSpace(in.Question) != "" &&
		strings.TrimSpace(in.Answer) != "" &&
		strings.TrimSpace(in.Category) != ""
}

func (s *Server) handleAdminListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := store.ListAllFAQs(r.Context(), s.db)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}

	s.respondJSON(w, http.StatusOK, faqs)
}

func (s *Server) handleAdminCreateFAQ(w http.ResponseWriter, r *http.Request) {
	var req store.FAQInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validFAQ(req) {
		s.respondError(w, http.StatusUnprocessableEntity, "Question, answer and category are required")
		return
	}

	faq, err := store.CreateFAQ(r.Context(), s.db, req)
	if err != nil {
		s.respondWriteErr(w, "faqs", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, faq)
}

func (s *Server) handleAdminUpdateFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid FAQ ID")
		return
	}
	var req store.FAQInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validFAQ(req) {
		s.respondError(w, http.StatusUnprocessableEntity, "Question, answer and category are required")
		return
	}

	faq, err := store.UpdateFAQ(r.Context(), s.db, id, req)
	if err != nil {
		s.respondWriteErr(w, "faqs", err)
		return
	}

	s.respondJSON(w, http.StatusOK, faq)
}

func (s *Server) handleAdminDeleteFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid FAQ ID")
		return
	}

	if err := store.DeleteFAQ(r.Context(), s.db, id); err != nil {
		s.respondWriteErr(w, "faqs", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validPaymentMethod(in store.PaymentMethodInput) bool {
	return strings.TrimSpace(in.Name) != "" &&
		strings.TrimSpace(in.AccountNumber) != "" &&
		strings.TrimSpace(in.AccountName) != ""
}

func (s *Server) handleAdminListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := store.ListAllPaymentMethods(r.Context(), s.db)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	if methods == nil {
		methods = []models.PaymentMethod{}
	}

	s.respondJSON(w, http.StatusOK, methods)
}

func (s *Server) handleAdminCreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req store.PaymentMethodInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validPaymentMethod(req) {
		s.respondError(w, http.StatusUnprocessableEntity, "Name, account number and account name are required")
		return
	}

	method, err := store.CreatePaymentMethod(r.Context(), s.db, req)
	if err != nil {
		s.respondWriteErr(w, "payment_methods", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, method)
}

func (s *Server) handleAdminUpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid payment method ID")
		return
	}
	var req store.PaymentMethodInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validPaymentMethod(req) {
		s.respondError(w, http.StatusUnprocessableEntity, "Name, account number and account name are required")
		return
	}

	method, err := store.UpdatePaymentMethod(r.Context(), s.db, id, req)
	if err != nil {
		s.respondWriteErr(w, "payment_methods", err)
		return
	}

	s.respondJSON(w, http.StatusOK, method)
}

func (s *Server) handleAdminDeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid payment method ID")
		return
	}

	if err := store.DeletePaymentMethod(r.Context(), s.db, id); err != nil {
		s.respondWriteErr(w, "payment_methods", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	req := store.CreateProductParams{Available: true}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.BasePrice.IsNegative() || req.StockQuantity < 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "Name, a non-negative price and stock are required")
		return
	}
	if req.PurityPercentage.IsZero() {
		req.PurityPercentage = decimal.NewFromInt(99)
	}

	product, err := store.CreateProduct(r.Context(), s.db, req)
	if err != nil {
		s.respondWriteErr(w, "products", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, product)
}

func (s *Server) handleAdminAddVariation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	var req struct {
		Name          string          `json:"name"`
		Price         decimal.Decimal `json:"price"`
		StockQuantity int             `json:"stock_quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Price.IsNegative() || req.StockQuantity < 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "Name, a non-negative price and stock are required")
		return
	}

	v, err := store.AddVariation(r.Context(), s.db, id, req.Name, req.Price, req.StockQuantity)
	if err != nil {
		s.respondWriteErr(w, "product_variations", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, v)
}
