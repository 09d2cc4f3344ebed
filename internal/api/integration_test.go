package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/safar/storefront/internal/checkout"
	"github.com/safar/storefront/internal/database/pgtest"
	"github.com/safar/storefront/internal/models"
	"github.com/safar/storefront/internal/recommend"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFlowAgainstPostgres(t *testing.T) {
	_, h := newTestServer(pgtest.New(t))

	rec := do(t, h, http.MethodPost, "/admin/products", map[string]interface{}{
		"name":              "Tirzepatide",
		"category":          "weight",
		"base_price":        "1500",
		"purity_percentage": "99.5",
		"stock_quantity":    3,
		"featured":          true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[models.Product](t, rec)
	assert.True(t, product.Available)

	rec = do(t, h, http.MethodPost, "/admin/products/"+product.ID.String()+"/variations", map[string]interface{}{
		"name": "10mg", "price": "2500", "stock_quantity": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	variation := decode[models.Variation](t, rec)

	rec = do(t, h, http.MethodPost, "/admin/payment-methods", map[string]interface{}{
		"name": "GCash", "account_number": "09171234567", "account_name": "HP GLOW", "active": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/recommendations", map[string][]string{"goals": {"Weight Loss"}})
	require.Equal(t, http.StatusOK, rec.Code)
	recs := decode[recommend.Result](t, rec)
	require.Len(t, recs.Primary, 1)
	assert.Equal(t, product.ID, recs.Primary[0].ID)

	rec = do(t, h, http.MethodPost, "/sessions", nil)
	id := decode[map[string]string](t, rec)["id"]
	base := "/sessions/" + id

	rec = do(t, h, http.MethodPost, base+"/cart/items", map[string]interface{}{
		"product_id": product.ID, "variation_id": variation.ID, "quantity": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	c := decode[cartView](t, rec)
	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, "Only 2 item(s) available in stock.", c.Notice)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, base+"/checkout", nil).Code)
	details := map[string]interface{}{}
	for k, v := range sampleDetails {
		details[k] = v
	}
	details["zone"] = "VISAYAS_MINDANAO"
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, base+"/checkout/details", details).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/checkout/payment", nil).Code)

	rec = do(t, h, http.MethodPut, base+"/checkout/payment-options", map[string]string{"notes": "Leave at the gate"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, base+"/checkout/place", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	conf := decode[checkout.Confirmation](t, rec)

	assert.True(t, conf.Order.GrandTotal().Equal(decimal.NewFromInt(5190)))
	assert.Contains(t, conf.Message, "📋 ORDER ID: "+conf.Order.ID.String())
	assert.Contains(t, conf.Message, "GCash")
	assert.Contains(t, conf.Message, "₱5,190")
	require.True(t, strings.HasPrefix(conf.Link, "https://wa.me/639241036416?text="))

	link, err := url.Parse(conf.Link)
	require.NoError(t, err)
	assert.Equal(t, conf.Message, link.Query().Get("text"))

	rec = do(t, h, http.MethodGet, base+"/cart", nil)
	assert.Zero(t, decode[cartView](t, rec).TotalItems)

	rec = do(t, h, http.MethodGet, "/admin/orders/"+conf.Order.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[models.Order](t, rec)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "10mg", *stored.Items[0].VariationName)
	assert.Equal(t, "Leave at the gate", *stored.Notes)
	assert.Equal(t, "GCash", *stored.PaymentMethodName)

	rec = do(t, h, http.MethodGet, "/admin/orders?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Items   []models.Order `json:"items"`
		HasMore bool           `json:"has_more"`
	}](t, rec)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
}

func TestUnavailableProductsAreHidden(t *testing.T) {
	_, h := newTestServer(pgtest.New(t))

	rec := do(t, h, http.MethodPost, "/admin/products", map[string]interface{}{
		"name": "Retatrutide", "base_price": "3000", "stock_quantity": 4, "available": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	hidden := decode[models.Product](t, rec)
	require.False(t, hidden.Available)

	rec = do(t, h, http.MethodPost, "/admin/products", map[string]interface{}{
		"name": "BPC-157", "base_price": "1200", "stock_quantity": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	shown := decode[models.Product](t, rec)

	rec = do(t, h, http.MethodGet, "/products/"+hidden.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/products/"+shown.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Items []models.Product `json:"items"`
		Total int64            `json:"total"`
	}](t, rec)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, shown.ID, page.Items[0].ID)
}

func TestFAQsServeDefaultsWhenTableEmpty(t *testing.T) {
	_, h := newTestServer(pgtest.New(t))

	rec := do(t, h, http.MethodGet, "/faqs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[contentResponse[models.FAQ]](t, rec)
	assert.True(t, body.Fallback)
	assert.Len(t, body.Items, 13)

	rec = do(t, h, http.MethodPost, "/admin/faqs", map[string]interface{}{
		"question": "Do you ship to Cebu?", "answer": "Yes.", "category": "Shipping", "order_index": 1, "is_active": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/faqs", nil)
	body = decode[contentResponse[models.FAQ]](t, rec)
	assert.False(t, body.Fallback)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Do you ship to Cebu?", body.Items[0].Question)
}

func TestAdminDuplicatePaymentMethod(t *testing.T) {
	_, h := newTestServer(pgtest.New(t))

	method := map[string]interface{}{"name": "GCash", "account_number": "0917", "account_name": "HP", "active": true}
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/admin/payment-methods", method).Code)

	rec := do(t, h, http.MethodPost, "/admin/payment-methods", method)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "A payment method with this name already exists.", decode[map[string]string](t, rec)["error"])
}
