package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/cart"
	"github.com/safar/storefront/internal/checkout"
	"github.com/safar/storefront/internal/content"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/session"
	"github.com/safar/storefront/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errNoCheckout = errors.New("checkout not started")

func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) bool {
	id, ok := pathUUID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid session ID")
		return false
	}
	if err := s.sessions.With(id, fn); err != nil {
		s.respondErr(w, err)
		return false
	}
	return true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.Create()
	s.respondJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

type cartView struct {
	Items      []cart.Item     `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Notice     string          `json:"notice,omitempty"`
}

func viewCart(c *cart.Cart, notice *cart.StockNotice) cartView {
	v := cartView{
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		Subtotal:   c.Subtotal(),
	}
	if notice != nil {
		v.Notice = notice.String()
	}
	return v
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	var out cartView
	ok := s.withSession(w, r, func(sess *session.Session) error {
		out = viewCart(sess.Cart, nil)
		return nil
	})
	if ok {
		s.respondJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID   uuid.UUID  `json:"product_id"`
		VariationID *uuid.UUID `json:"variation_id"`
		Quantity    int        `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := store.GetProduct(r.Context(), s.db, req.ProductID)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if !product.Available {
		s.respondErr(w, database.ErrProductNotFound)
		return
	}

	var out cartView
	ok := s.withSession(w, r, func(sess *session.Session) error {
		notice, err := sess.Cart.AddByVariationID(*product, req.VariationID, req.Quantity)
		if err != nil {
			return err
		}
		out = viewCart(sess.Cart, notice)
		return nil
	})
	if ok {
		s.respondJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	index, ok := pathInt(r, "index")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid item index")
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var out cartView
	ok = s.withSession(w, r, func(sess *session.Session) error {
		notice, err := sess.Cart.UpdateQuantity(index, req.Quantity)
		if err != nil {
			return err
		}
		out = viewCart(sess.Cart, notice)
		return nil
	})
	if ok {
		s.respondJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	index, ok := pathInt(r, "index")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid item index")
		return
	}

	var out cartView
	ok = s.withSession(w, r, func(sess *session.Session) error {
		if err := sess.Cart.Remove(index); err != nil {
			return err
		}
		out = viewCart(sess.Cart, nil)
		return nil
	})
	if ok {
		s.respondJSON(w, http.StatusOK, out)
	}
}

// withCheckout runs fn against the session's checkout and answers with the
// resulting view.
func (s *Server) withCheckout(w http.ResponseWriter, r *http.Request, fn func(*checkout.Checkout) error) {
	var view checkout.View
	ok := s.withSession(w, r, func(sess *session.Session) error {
		if sess.Checkout == nil {
			return errNoCheckout
		}
		if err := fn(sess.Checkout); err != nil {
			return err
		}
		view = sess.Checkout.View()
		return nil
	})
	if ok {
		s.respondJSON(w, http.StatusOK, view)
	}
}

func (s *Server) handleStartCheckout(w http.ResponseWriter, r *http.Request) {
	var view checkout.View
	ok := s.withSession(w, r, func(sess *session.Session) error {
		co, err := checkout.New(sess.Cart.Items())
		if err != nil {
			return err
		}
		sess.Checkout = co
		view = co.View()
		return nil
	})
	if ok {
		s.respondJSON(w, http.StatusCreated, view)
	}
}

func (s *Server) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	s.withCheckout(w, r, func(*checkout.Checkout) error { return nil })
}

func (s *Server) handleCheckoutDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Customer checkout.Customer `json:"customer"`
		Shipping checkout.Shipping `json:"shipping"`
		Zone     string            `json:"zone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	zone, err := checkout.ParseZone(req.Zone)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	s.withCheckout(w, r, func(co *checkout.Checkout) error {
		if err := co.SetDetails(req.Customer, req.Shipping); err != nil {
			return err
		}
		return co.SelectZone(zone)
	})
}

func (s *Server) handleProceedToPayment(w http.ResponseWriter, r *http.Request) {
	s.withCheckout(w, r, func(co *checkout.Checkout) error {
		return co.ProceedToPayment()
	})
}

func (s *Server) handleCheckoutBack(w http.ResponseWriter, r *http.Request) {
	s.withCheckout(w, r, func(co *checkout.Checkout) error {
		return co.Back()
	})
}

func (s *Server) handlePaymentOptions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Zone            *string    `json:"zone"`
		PaymentMethodID *uuid.UUID `json:"payment_method_id"`
		ContactMethod   *string    `json:"contact_method"`
		Notes           *string    `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.withCheckout(w, r, func(co *checkout.Checkout) error {
		if co.Step() != checkout.StepPayment {
			return checkout.ErrWrongStep
		}
		if req.Zone != nil {
			zone, err := checkout.ParseZone(*req.Zone)
			if err != nil {
				return err
			}
			if err := co.SelectZone(zone); err != nil {
				return err
			}
		}
		if req.PaymentMethodID != nil {
			if err := co.SelectPaymentMethod(req.PaymentMethodID); err != nil {
				return err
			}
		}
		if req.ContactMethod != nil {
			if err := co.SetContactMethod(checkout.ContactMethod(*req.ContactMethod)); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			return co.SetNotes(*req.Notes)
		}
		return nil
	})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	methods := s.activePaymentMethods(ctx)
	if methods.Status == content.StatusFatal {
		respondContent(s, w, "payment_methods", methods)
		return
	}
	if methods.Fallback() {
		s.logger.Warn("placing order without payment methods", zap.Error(methods.Reason))
	}

	var (
		confirmation *checkout.Confirmation
		writeErr     error
	)
	id, ok := pathUUID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}
	err := s.sessions.With(id, func(sess *session.Session) error {
		if sess.Checkout == nil {
			return errNoCheckout
		}
		c, err := sess.Checkout.PlaceOrder(ctx, s.orders, methods.Items, s.merchant, s.now())
		if err != nil {
			var saveErr *checkout.SaveError
			if errors.As(err, &saveErr) {
				writeErr = err
			}
			return err
		}
		confirmation = c
		sess.Cart.Clear()
		return nil
	})

	if writeErr != nil {
		s.logger.Error("order write failed", zap.Error(writeErr))
		s.respondJSON(w, http.StatusBadGateway, map[string]string{
			"error": database.DescribeWriteError("orders", writeErr),
		})
		return
	}
	if err != nil {
		s.respondErr(w, err)
		return
	}

	s.logger.Info("order placed",
		zap.Stringer("order_id", confirmation.Order.ID),
		zap.String("grand_total", confirmation.Order.GrandTotal().String()),
	)
	s.respondJSON(w, http.StatusCreated, confirmation)
}
