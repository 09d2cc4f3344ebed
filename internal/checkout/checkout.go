package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/cart"
	"github.com/safar/storefront/internal/models"
	"github.com/shopspring/decimal"
)

type Step string

const (
	StepDetails      Step = "details"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

type ContactMethod string

const (
	ContactNone     ContactMethod = ""
	ContactWhatsApp ContactMethod = "whatsapp"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrWrongStep             = errors.New("action not allowed at this step")
	ErrIncompleteDetails     = errors.New("customer and shipping details are incomplete")
	ErrContactMethodRequired = errors.New("please confirm WhatsApp as your contact method")
	ErrZoneRequired          = errors.New("please select your shipping location")
	ErrUnknownZone           = errors.New("unknown shipping zone")
	ErrUnknownContactMethod  = errors.New("unknown contact method")
)

// DetailsError lists the fields that blocked the move to payment.
type DetailsError struct {
	Missing []string
}

func (e *DetailsError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrIncompleteDetails, strings.Join(e.Missing, ", "))
}

func (e *DetailsError) Unwrap() error {
	return ErrIncompleteDetails
}

// SaveError marks a failure of the order write itself, as opposed to a
// checkout rule rejecting the order before it reached storage.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return "save order: " + e.Err.Error()
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Shipping struct {
	Street     string `json:"street"`
	Barangay   string `json:"barangay"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Fee      decimal.Decimal `json:"shipping_fee"`
	Total    decimal.Decimal `json:"total"`
}

// Merchant identifies the receiving end of the order hand-off.
type Merchant struct {
	Name            string
	MessagingDomain string
	Recipient       string
	Location        *time.Location
}

// OrderSaver persists a placed order and returns it with the identifier the
// store assigned.
type OrderSaver interface {
	SaveOrder(ctx context.Context, order models.Order) (*models.Order, error)
}

type Confirmation struct {
	Order   models.Order `json:"order"`
	Message string       `json:"message"`
	Link    string       `json:"link"`
}

type Checkout struct {
	step            Step
	items           []cart.Item
	customer        Customer
	shipping        Shipping
	zone            Zone
	paymentMethodID *uuid.UUID
	contact         ContactMethod
	notes           string
	confirmation    *Confirmation
}

// New starts a checkout over a copy of items at the details step.
func New(items []cart.Item) (*Checkout, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	snapshot := make([]cart.Item, len(items))
	copy(snapshot, items)
	return &Checkout{
		step:    StepDetails,
		items:   snapshot,
		contact: ContactWhatsApp,
	}, nil
}

func (c *Checkout) Step() Step {
	return c.step
}

func (c *Checkout) Items() []cart.Item {
	out := make([]cart.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Checkout) Zone() Zone {
	return c.zone
}

func (c *Checkout) Confirmation() *Confirmation {
	return c.confirmation
}

func (c *Checkout) SetDetails(customer Customer, shipping Shipping) error {
	if c.step != StepDetails {
		return fmt.Errorf("set details: %w", ErrWrongStep)
	}
	c.customer = customer
	c.shipping = shipping
	return nil
}

// SelectZone is allowed on both the details and the payment step.
func (c *Checkout) SelectZone(z Zone) error {
	if c.step == StepConfirmation {
		return fmt.Errorf("select zone: %w", ErrWrongStep)
	}
	if z != ZoneUnset && !z.Valid() {
		return fmt.Errorf("select zone %q: %w", z, ErrUnknownZone)
	}
	c.zone = z
	return nil
}

func (c *Checkout) SelectPaymentMethod(id *uuid.UUID) error {
	if c.step != StepPayment {
		return fmt.Errorf("select payment method: %w", ErrWrongStep)
	}
	c.paymentMethodID = id
	return nil
}

func (c *Checkout) SetContactMethod(m ContactMethod) error {
	if c.step != StepPayment {
		return fmt.Errorf("set contact method: %w", ErrWrongStep)
	}
	if m != ContactNone && m != ContactWhatsApp {
		return fmt.Errorf("set contact method %q: %w", m, ErrUnknownContactMethod)
	}
	c.contact = m
	return nil
}

func (c *Checkout) SetNotes(notes string) error {
	if c.step != StepPayment {
		return fmt.Errorf("set notes: %w", ErrWrongStep)
	}
	c.notes = notes
	return nil
}

// MissingFields names every required details field that is blank.
func (c *Checkout) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"name", c.customer.Name},
		{"email", c.customer.Email},
		{"phone", c.customer.Phone},
		{"street", c.shipping.Street},
		{"barangay", c.shipping.Barangay},
		{"city", c.shipping.City},
		{"province", c.shipping.Province},
		{"postal_code", c.shipping.PostalCode},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if !c.zone.Valid() {
		missing = append(missing, "zone")
	}
	return missing
}

func (c *Checkout) DetailsValid() bool {
	return len(c.MissingFields()) == 0
}

func (c *Checkout) ProceedToPayment() error {
	if c.step != StepDetails {
		return fmt.Errorf("proceed to payment: %w", ErrWrongStep)
	}
	if missing := c.MissingFields(); len(missing) > 0 {
		return &DetailsError{Missing: missing}
	}
	c.step = StepPayment
	return nil
}

func (c *Checkout) Back() error {
	if c.step != StepPayment {
		return fmt.Errorf("back: %w", ErrWrongStep)
	}
	c.step = StepDetails
	return nil
}

func (c *Checkout) Totals() Totals {
	subtotal := cart.Subtotal(c.items)
	fee := Fee(c.zone)
	return Totals{
		Subtotal: subtotal,
		Fee:      fee,
		Total:    subtotal.Add(fee),
	}
}

// paymentMethod resolves the selected method, defaulting to the first one
// offered when nothing was picked.
func (c *Checkout) paymentMethod(methods []models.PaymentMethod) *models.PaymentMethod {
	if c.paymentMethodID == nil {
		if len(methods) == 0 {
			return nil
		}
		return &methods[0]
	}
	for i := range methods {
		if methods[i].ID == *c.paymentMethodID {
			return &methods[i]
		}
	}
	return nil
}

func (c *Checkout) buildOrder(pm *models.PaymentMethod) models.Order {
	totals := c.Totals()

	items := make([]models.OrderItem, 0, len(c.items))
	for _, item := range c.items {
		oi := models.OrderItem{
			ProductID:        item.Product.ID,
			ProductName:      item.Product.Name,
			Quantity:         item.Quantity,
			Price:            item.Price,
			Total:            item.LineTotal(),
			PurityPercentage: item.Product.PurityPercentage,
		}
		if item.Variation != nil {
			id, name := item.Variation.ID, item.Variation.Name
			oi.VariationID = &id
			oi.VariationName = &name
		}
		items = append(items, oi)
	}

	order := models.Order{
		CustomerName:     c.customer.Name,
		CustomerEmail:    c.customer.Email,
		CustomerPhone:    c.customer.Phone,
		ShippingAddress:  c.shipping.Street,
		ShippingBarangay: c.shipping.Barangay,
		ShippingCity:     c.shipping.City,
		ShippingState:    c.shipping.Province,
		ShippingZipCode:  c.shipping.PostalCode,
		ShippingLocation: string(c.zone),
		ShippingFee:      totals.Fee,
		TotalPrice:       totals.Subtotal,
		OrderStatus:      models.OrderStatusNew,
		PaymentStatus:    models.PaymentStatusPending,
		Items:            items,
	}
	if pm != nil {
		id, name := pm.ID, pm.Name
		order.PaymentMethodID = &id
		order.PaymentMethodName = &name
	}
	if c.contact != ContactNone {
		contact := string(c.contact)
		order.ContactMethod = &contact
	}
	if notes := strings.TrimSpace(c.notes); notes != "" {
		order.Notes = &notes
	}
	return order
}

// PlaceOrder writes the order once and, when the write succeeds, composes the
// hand-off message and moves to confirmation. A failed write leaves the
// checkout on the payment step so the customer can try again.
func (c *Checkout) PlaceOrder(ctx context.Context, saver OrderSaver, methods []models.PaymentMethod, merchant Merchant, now time.Time) (*Confirmation, error) {
	if c.step != StepPayment {
		return nil, fmt.Errorf("place order: %w", ErrWrongStep)
	}
	if c.contact == ContactNone {
		return nil, ErrContactMethodRequired
	}
	if !c.zone.Valid() {
		return nil, ErrZoneRequired
	}

	pm := c.paymentMethod(methods)
	saved, err := saver.SaveOrder(ctx, c.buildOrder(pm))
	if err != nil {
		return nil, &SaveError{Err: err}
	}

	loc := merchant.Location
	if loc == nil {
		loc = time.UTC
	}
	message := FormatMessage(MessageInput{
		Merchant:      merchant.Name,
		PlacedAt:      now.In(loc),
		Customer:      c.customer,
		Shipping:      c.shipping,
		Items:         c.items,
		Zone:          c.zone,
		Totals:        c.Totals(),
		PaymentMethod: pm,
		Contact:       merchant.MessagingDomain + "/" + merchant.Recipient,
		OrderID:       saved.ID,
	})

	c.confirmation = &Confirmation{
		Order:   *saved,
		Message: message,
		Link:    DeepLink(merchant.MessagingDomain, merchant.Recipient, message),
	}
	c.step = StepConfirmation
	return c.confirmation, nil
}

// View is a read-only snapshot for rendering.
type View struct {
	Step            Step          `json:"step"`
	Customer        Customer      `json:"customer"`
	Shipping        Shipping      `json:"shipping"`
	Zone            Zone          `json:"zone"`
	ZoneOptions     []ZoneOption  `json:"zone_options"`
	PaymentMethodID *uuid.UUID    `json:"payment_method_id,omitempty"`
	ContactMethod   ContactMethod `json:"contact_method"`
	Notes           string        `json:"notes"`
	Items           []cart.Item   `json:"items"`
	Totals          Totals        `json:"totals"`
	CanProceed      bool          `json:"can_proceed"`
	Confirmation    *Confirmation `json:"confirmation,omitempty"`
}

type ZoneOption struct {
	Zone  Zone            `json:"zone"`
	Label string          `json:"label"`
	Fee   decimal.Decimal `json:"fee"`
}

func (c *Checkout) View() View {
	options := make([]ZoneOption, 0, len(Zones))
	for _, z := range Zones {
		options = append(options, ZoneOption{Zone: z, Label: z.Label(), Fee: Fee(z)})
	}
	return View{
		Step:            c.step,
		Customer:        c.customer,
		Shipping:        c.shipping,
		Zone:            c.zone,
		ZoneOptions:     options,
		PaymentMethodID: c.paymentMethodID,
		ContactMethod:   c.contact,
		Notes:           c.notes,
		Items:           c.Items(),
		Totals:          c.Totals(),
		CanProceed:      c.step == StepDetails && c.DetailsValid(),
		Confirmation:    c.confirmation,
	}
}
