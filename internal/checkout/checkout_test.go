package checkout

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/cart"
	"github.com/safar/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	calls int
	saved models.Order
	err   error
	id    uuid.UUID
}

func (f *fakeSaver) SaveOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	order.ID = f.id
	f.saved = order
	return &order, nil
}

var testMerchant = Merchant{
	Name:            "HP GLOW",
	MessagingDomain: "wa.me",
	Recipient:       "639241036416",
	Location:        time.FixedZone("PHT", 8*60*60),
}

func testItems() []cart.Item {
	return []cart.Item{{
		Product: models.Product{
			ID:               uuid.New(),
			Name:             "Tirzepatide",
			PurityPercentage: decimal.NewFromInt(99),
		},
		Quantity: 2,
		Price:    decimal.NewFromInt(1000),
	}}
}

func fillDetails(t *testing.T, c *Checkout) {
	t.Helper()
	require.NoError(t, c.SetDetails(
		Customer{Name: "Juan Dela Cruz", Email: "juan@gmail.com", Phone: "09171234567"},
		Shipping{Street: "123 Rizal Street", Barangay: "Brgy. San Antonio", City: "Quezon City", Province: "Metro Manila", PostalCode: "1100"},
	))
}

func toPayment(t *testing.T) *Checkout {
	t.Helper()
	c, err := New(testItems())
	require.NoError(t, err)
	fillDetails(t, c)
	require.NoError(t, c.SelectZone(ZoneNCR))
	require.NoError(t, c.ProceedToPayment())
	return c
}

func TestFeeTable(t *testing.T) {
	assert.True(t, Fee(ZoneNCR).Equal(decimal.NewFromInt(160)))
	assert.True(t, Fee(ZoneLuzon).Equal(decimal.NewFromInt(165)))
	assert.True(t, Fee(ZoneVisayasMindanao).Equal(decimal.NewFromInt(190)))
	assert.True(t, Fee(ZoneUnset).IsZero())
	assert.True(t, Fee("MARS").IsZero())

	for i := 0; i < 3; i++ {
		assert.True(t, Fee(ZoneNCR).Equal(decimal.NewFromInt(160)), "fee is stable across calls")
	}
}

func TestZoneLabelAndParse(t *testing.T) {
	assert.Equal(t, "VISAYAS & MINDANAO", ZoneVisayasMindanao.Label())
	assert.Equal(t, "NCR", ZoneNCR.Label())

	z, err := ParseZone(" luzon ")
	require.NoError(t, err)
	assert.Equal(t, ZoneLuzon, z)

	z, err = ParseZone("")
	require.NoError(t, err)
	assert.Equal(t, ZoneUnset, z)

	_, err = ParseZone("abroad")
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestNewRejectsEmptyCart(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestProceedRequiresEveryField(t *testing.T) {
	fields := []string{"name", "email", "phone", "street", "barangay", "city", "province", "postal_code"}

	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			c, err := New(testItems())
			require.NoError(t, err)
			fillDetails(t, c)
			require.NoError(t, c.SelectZone(ZoneLuzon))

			customer, shipping := c.customer, c.shipping
			blank := "   "
			switch field {
			case "name":
				customer.Name = blank
			case "email":
				customer.Email = blank
			case "phone":
				customer.Phone = ""
			case "street":
				shipping.Street = blank
			case "barangay":
				shipping.Barangay = ""
			case "city":
				shipping.City = blank
			case "province":
				shipping.Province = ""
			case "postal_code":
				shipping.PostalCode = "\t"
			}
			require.NoError(t, c.SetDetails(customer, shipping))

			err = c.ProceedToPayment()
			require.ErrorIs(t, err, ErrIncompleteDetails)

			var detailsErr *DetailsError
			require.True(t, errors.As(err, &detailsErr))
			assert.Equal(t, []string{field}, detailsErr.Missing)
			assert.Equal(t, StepDetails, c.Step(), "refused transition does not move")
		})
	}
}

func TestProceedRequiresZone(t *testing.T) {
	c, err := New(testItems())
	require.NoError(t, err)
	fillDetails(t, c)

	err = c.ProceedToPayment()
	require.ErrorIs(t, err, ErrIncompleteDetails)
	assert.Equal(t, StepDetails, c.Step())
	assert.False(t, c.View().CanProceed)

	require.NoError(t, c.SelectZone(ZoneVisayasMindanao))
	assert.True(t, c.View().CanProceed)
	require.NoError(t, c.ProceedToPayment())
	assert.Equal(t, StepPayment, c.Step())
}

func TestTransitionsAreOneStep(t *testing.T) {
	c, err := New(testItems())
	require.NoError(t, err)

	assert.ErrorIs(t, c.Back(), ErrWrongStep, "no step before details")

	fillDetails(t, c)
	require.NoError(t, c.SelectZone(ZoneNCR))
	require.NoError(t, c.ProceedToPayment())
	assert.ErrorIs(t, c.ProceedToPayment(), ErrWrongStep)
	assert.ErrorIs(t, c.SetDetails(Customer{}, Shipping{}), ErrWrongStep)

	require.NoError(t, c.Back())
	assert.Equal(t, StepDetails, c.Step())

	_, err = c.PlaceOrder(context.Background(), &fakeSaver{}, nil, testMerchant, time.Now())
	assert.ErrorIs(t, err, ErrWrongStep, "cannot skip payment")
}

func TestTotals(t *testing.T) {
	c := toPayment(t)

	totals := c.Totals()
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, totals.Fee.Equal(decimal.NewFromInt(160)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(2160)))

	require.NoError(t, c.SelectZone(ZoneVisayasMindanao))
	assert.True(t, c.Totals().Total.Equal(decimal.NewFromInt(2190)), "zone may change on the payment step")
}

func TestPlaceOrderGuards(t *testing.T) {
	c := toPayment(t)
	saver := &fakeSaver{id: uuid.New()}

	require.NoError(t, c.SetContactMethod(ContactNone))
	_, err := c.PlaceOrder(context.Background(), saver, nil, testMerchant, time.Now())
	assert.ErrorIs(t, err, ErrContactMethodRequired)

	require.NoError(t, c.SetContactMethod(ContactWhatsApp))
	require.NoError(t, c.SelectZone(ZoneUnset))
	_, err = c.PlaceOrder(context.Background(), saver, nil, testMerchant, time.Now())
	assert.ErrorIs(t, err, ErrZoneRequired)

	assert.Zero(t, saver.calls, "guards run before any write")
	assert.ErrorIs(t, c.SetContactMethod("sms"), ErrUnknownContactMethod)
}

func TestPlaceOrderWritesOnceAndConfirms(t *testing.T) {
	c := toPayment(t)
	gcash := models.PaymentMethod{ID: uuid.New(), Name: "GCash", AccountNumber: "09171234567"}
	bdo := models.PaymentMethod{ID: uuid.New(), Name: "BDO", AccountNumber: "0012-3456-7890"}
	require.NoError(t, c.SelectPaymentMethod(&bdo.ID))
	require.NoError(t, c.SetNotes("  leave at guard house  "))

	saver := &fakeSaver{id: uuid.New()}
	now := time.Date(2026, 10, 14, 7, 30, 0, 0, time.UTC)

	conf, err := c.PlaceOrder(context.Background(), saver, []models.PaymentMethod{gcash, bdo}, testMerchant, now)
	require.NoError(t, err)

	assert.Equal(t, 1, saver.calls)
	assert.Equal(t, StepConfirmation, c.Step())
	assert.Equal(t, saver.id, conf.Order.ID)

	order := saver.saved
	assert.Equal(t, "NCR", order.ShippingLocation)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(2000)))
	assert.True(t, order.ShippingFee.Equal(decimal.NewFromInt(160)))
	assert.Equal(t, models.OrderStatusNew, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.NotNil(t, order.PaymentMethodName)
	assert.Equal(t, "BDO", *order.PaymentMethodName)
	require.NotNil(t, order.Notes)
	assert.Equal(t, "leave at guard house", *order.Notes)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Total.Equal(decimal.NewFromInt(2000)))
	assert.True(t, order.Items[0].PurityPercentage.Equal(decimal.NewFromInt(99)))

	assert.Contains(t, conf.Message, "Account: 0012-3456-7890")
	assert.Contains(t, conf.Message, "Wednesday, October 14, 2026 at 03:30:00 PM")
	assert.True(t, strings.HasPrefix(conf.Link, "https://wa.me/639241036416?text="))

	_, err = c.PlaceOrder(context.Background(), saver, nil, testMerchant, now)
	assert.ErrorIs(t, err, ErrWrongStep, "confirmation is terminal")
	assert.Equal(t, 1, saver.calls)
}

func TestPlaceOrderDefaultsToFirstPaymentMethod(t *testing.T) {
	c := toPayment(t)
	gcash := models.PaymentMethod{ID: uuid.New(), Name: "GCash", AccountNumber: "0917"}
	saver := &fakeSaver{id: uuid.New()}

	conf, err := c.PlaceOrder(context.Background(), saver, []models.PaymentMethod{gcash}, testMerchant, time.Now())
	require.NoError(t, err)
	require.NotNil(t, saver.saved.PaymentMethodID)
	assert.Equal(t, gcash.ID, *saver.saved.PaymentMethodID)
	assert.Contains(t, conf.Message, "GCash\nAccount: 0917")
}

func TestPlaceOrderWriteFailureBlocksMessage(t *testing.T) {
	c := toPayment(t)
	saver := &fakeSaver{err: errors.New("relation \"orders\" does not exist")}

	conf, err := c.PlaceOrder(context.Background(), saver, nil, testMerchant, time.Now())
	require.Error(t, err)
	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.ErrorIs(t, err, saver.err)
	assert.Nil(t, conf)
	assert.Equal(t, StepPayment, c.Step())
	assert.Nil(t, c.Confirmation())
	assert.Equal(t, 1, saver.calls, "no retry")

	saver.err = nil
	saver.id = uuid.New()
	_, err = c.PlaceOrder(context.Background(), saver, nil, testMerchant, time.Now())
	require.NoError(t, err, "customer may resubmit by hand")
}

func TestPlaceOrderRuleFailureIsNotSaveError(t *testing.T) {
	c := toPayment(t)
	require.NoError(t, c.Back())
	saver := &fakeSaver{id: uuid.New()}

	_, err := c.PlaceOrder(context.Background(), saver, nil, testMerchant, time.Now())
	require.ErrorIs(t, err, ErrWrongStep)
	var saveErr *SaveError
	assert.False(t, errors.As(err, &saveErr))
	assert.Zero(t, saver.calls)
}

var grandTotalRe = regexp.MustCompile(`Grand Total: ₱([0-9,.]+)`)

func TestMessageRoundTripsTotalAndID(t *testing.T) {
	items := testItems()
	items[0].Price = decimal.NewFromInt(2750)
	items[0].Quantity = 3
	v := models.Variation{ID: uuid.New(), Name: "10mg"}
	items[0].Variation = &v

	c, err := New(items)
	require.NoError(t, err)
	fillDetails(t, c)
	require.NoError(t, c.SelectZone(ZoneLuzon))
	require.NoError(t, c.ProceedToPayment())

	saver := &fakeSaver{id: uuid.New()}
	conf, err := c.PlaceOrder(context.Background(), saver, nil, testMerchant, time.Now())
	require.NoError(t, err)

	assert.Contains(t, conf.Message, "📋 ORDER ID: "+saver.id.String())
	assert.Contains(t, conf.Message, "• Tirzepatide (10mg) x3 - ₱8,250\n  Purity: 99%")
	assert.Contains(t, conf.Message, "Shipping Fee: ₱165 (LUZON)")
	assert.Contains(t, conf.Message, "💳 PAYMENT METHOD\nN/A")

	m := grandTotalRe.FindStringSubmatch(conf.Message)
	require.Len(t, m, 2)
	parsed, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(c.Totals().Total), "grand total %s != %s", parsed, c.Totals().Total)
	assert.True(t, parsed.Equal(decimal.NewFromInt(8415)))

	u, err := url.Parse(conf.Link)
	require.NoError(t, err)
	assert.Equal(t, conf.Message, u.Query().Get("text"))
	assert.NotContains(t, u.RawQuery, "+", "spaces are percent-encoded")
}

func TestFormatMessageLayout(t *testing.T) {
	msg := FormatMessage(MessageInput{
		Merchant: "HP GLOW",
		PlacedAt: time.Date(2026, 1, 5, 21, 4, 5, 0, time.UTC),
		Customer: Customer{Name: "Ana", Email: "ana@example.com", Phone: "0917"},
		Shipping: Shipping{Street: "1 Main", Barangay: "Poblacion", City: "Cebu City", Province: "Cebu", PostalCode: "6000"},
		Items:    testItems(),
		Zone:     ZoneVisayasMindanao,
		Totals:   Totals{Subtotal: decimal.NewFromInt(2000), Fee: decimal.NewFromInt(190), Total: decimal.NewFromInt(2190)},
		Contact:  "wa.me/639241036416",
		OrderID:  uuid.MustParse("00000000-0000-0000-0000-000000000001"),
	})

	assert.True(t, strings.HasPrefix(msg, "✨ HP GLOW - NEW ORDER\n\n📅 ORDER DATE & TIME\nMonday, January 5, 2026 at 09:04:05 PM"))
	assert.Contains(t, msg, "📦 SHIPPING ADDRESS\n1 Main\nPoblacion\nCebu City, Cebu 6000")
	assert.Contains(t, msg, "Shipping Fee: ₱190 (VISAYAS & MINDANAO)")
	assert.Contains(t, msg, "📱 CONTACT METHOD\nWhatsApp: wa.me/639241036416")
	assert.True(t, strings.HasSuffix(msg, "Please confirm this order. Thank you!"))
}

func TestPeso(t *testing.T) {
	assert.Equal(t, "₱2,160", Peso(decimal.NewFromInt(2160)))
	assert.Equal(t, "₱1,234.5", Peso(decimal.RequireFromString("1234.50")))
	assert.Equal(t, "₱0", Peso(decimal.Zero))
}
