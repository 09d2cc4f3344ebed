package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/safar/storefront/internal/assessment"
	"github.com/safar/storefront/internal/cart"
	"github.com/safar/storefront/internal/checkout"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/logging"
	"github.com/safar/storefront/internal/session"
	"github.com/safar/storefront/internal/store"
	"go.uber.org/zap"
)

type Server struct {
	db       *sql.DB
	sessions *session.Store
	merchant checkout.Merchant
	orders   checkout.OrderSaver
	logger   *zap.Logger
	now      func() time.Time
}

func NewServer(db *sql.DB, sessions *session.Store, merchant checkout.Merchant, logger *zap.Logger) *Server {
	return &Server{
		db:       db,
		sessions: sessions,
		merchant: merchant,
		orders:   store.Orders{DB: db},
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", s.handleGetProduct).Methods(http.MethodGet)
	r.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	r.HandleFunc("/faqs", s.handleFAQs).Methods(http.MethodGet)
	r.HandleFunc("/payment-methods", s.handlePaymentMethods).Methods(http.MethodGet)

	r.HandleFunc("/goals", s.handleGoals).Methods(http.MethodGet)
	r.HandleFunc("/recommendations", s.handleRecommendations).Methods(http.MethodPost)
	r.HandleFunc("/assessments", s.handleAssessment).Methods(http.MethodPost)

	r.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	sess := r.PathPrefix("/sessions/{id}").Subrouter()
	sess.HandleFunc("/cart", s.handleGetCart).Methods(http.MethodGet)
	sess.HandleFunc("/cart/items", s.handleAddCartItem).Methods(http.MethodPost)
	sess.HandleFunc("/cart/items/{index}", s.handleUpdateCartItem).Methods(http.MethodPatch)
	sess.HandleFunc("/cart/items/{index}", s.handleRemoveCartItem).Methods(http.MethodDelete)
	sess.HandleFunc("/checkout", s.handleStartCheckout).Methods(http.MethodPost)
	sess.HandleFunc("/checkout", s.handleGetCheckout).Methods(http.MethodGet)
	sess.HandleFunc("/checkout/details", s.handleCheckoutDetails).Methods(http.MethodPut)
	sess.HandleFunc("/checkout/payment", s.handleProceedToPayment).Methods(http.MethodPost)
	sess.HandleFunc("/checkout/back", s.handleCheckoutBack).Methods(http.MethodPost)
	sess.HandleFunc("/checkout/payment-options", s.handlePaymentOptions).Methods(http.MethodPut)
	sess.HandleFunc("/checkout/place", s.handlePlaceOrder).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/orders", s.handleAdminListOrders).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{id}", s.handleAdminGetOrder).Methods(http.MethodGet)
	admin.HandleFunc("/faqs", s.handleAdminListFAQs).Methods(http.MethodGet)
	admin.HandleFunc("/faqs", s.handleAdminCreateFAQ).Methods(http.MethodPost)
	admin.HandleFunc("/faqs/{id}", s.handleAdminUpdateFAQ).Methods(http.MethodPut)
	admin.HandleFunc("/faqs/{id}", s.handleAdminDeleteFAQ).Methods(http.MethodDelete)
	admin.HandleFunc("/payment-methods", s.handleAdminListPaymentMethods).Methods(http.MethodGet)
	admin.HandleFunc("/payment-methods", s.handleAdminCreatePaymentMethod).Methods(http.MethodPost)
	admin.HandleFunc("/payment-methods/{id}", s.handleAdminUpdatePaymentMethod).Methods(http.MethodPut)
	admin.HandleFunc("/payment-methods/{id}", s.handleAdminDeletePaymentMethod).Methods(http.MethodDelete)
	admin.HandleFunc("/products", s.handleAdminCreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}/variations", s.handleAdminAddVariation).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return logging.Middleware(s.logger)(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps a domain or store error onto a status code. Unexpected
// errors are logged and hidden from the client.
func (s *Server) respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, status, "Internal server error")
		return
	}

	var details *checkout.DetailsError
	if errors.As(err, &details) {
		s.respondJSON(w, status, map[string]interface{}{
			"error":   err.Error(),
			"missing": details.Missing,
		})
		return
	}
	s.respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, errNoCheckout),
		errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, database.ErrFAQNotFound),
		errors.Is(err, database.ErrPaymentMethodNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, cart.ErrNoSuchVariant):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrWrongStep):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrIncompleteDetails),
		errors.Is(err, checkout.ErrContactMethodRequired),
		errors.Is(err, checkout.ErrZoneRequired),
		errors.Is(err, checkout.ErrUnknownZone),
		errors.Is(err, checkout.ErrUnknownContactMethod),
		errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, assessment.ErrConsentRequired),
		errors.Is(err, assessment.ErrPersonalIncomplete),
		errors.Is(err, assessment.ErrMedicalRequired),
		errors.Is(err, assessment.ErrUnknownGoal),
		errors.Is(err, assessment.ErrUnknownOption):
		return http.StatusUnprocessableEntity
	}

	switch database.ClassifyError(err) {
	case database.ErrorClassDuplicate:
		return http.StatusConflict
	case database.ErrorClassNotNull:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	return id, err == nil
}

func pathInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	return n, err == nil
}

// maxPage bounds the page number so (page-1)*pageSize fits an offset.
const maxPage = 100000

func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
