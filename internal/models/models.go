package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	Category         string           `json:"category"`
	BasePrice        decimal.Decimal  `json:"base_price"`
	DiscountPrice    *decimal.Decimal `json:"discount_price,omitempty"`
	DiscountActive   bool             `json:"discount_active"`
	PurityPercentage decimal.Decimal  `json:"purity_percentage"`
	StockQuantity    int              `json:"stock_quantity"`
	ImageURL         *string          `json:"image_url,omitempty"`
	Featured         bool             `json:"featured"`
	Available        bool             `json:"available"`
	Variations       []Variation      `json:"variations,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type Variation struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}

func (p Product) discounted() bool {
	return p.DiscountActive && p.DiscountPrice != nil && p.DiscountPrice.IsPositive()
}

// EffectivePrice is the unit price charged for p, optionally as variation v.
func (p Product) EffectivePrice(v *Variation) decimal.Decimal {
	if v != nil {
		return v.Price
	}
	if p.discounted() {
		return *p.DiscountPrice
	}
	return p.BasePrice
}

func (p Product) AvailableStock(v *Variation) int {
	if v != nil {
		return v.StockQuantity
	}
	return p.StockQuantity
}

func (p Product) HasAnyStock() bool {
	if len(p.Variations) > 0 {
		for _, v := range p.Variations {
			if v.StockQuantity > 0 {
				return true
			}
		}
		return false
	}
	return p.StockQuantity > 0
}

// DiscountPercent is the whole-number percentage off the base price, or zero
// when no discount applies.
func (p Product) DiscountPercent() int64 {
	if !p.discounted() || !p.BasePrice.IsPositive() {
		return 0
	}
	ratio := decimal.NewFromInt(1).Sub(p.DiscountPrice.Div(p.BasePrice))
	return ratio.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (p Product) Variation(id uuid.UUID) (*Variation, bool) {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return &p.Variations[i], true
		}
	}
	return nil, false
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}

type FAQ struct {
	ID         uuid.UUID `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	OrderIndex int       `json:"order_index"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PaymentMethod struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	QRCodeURL     string    `json:"qr_code_url"`
	Active        bool      `json:"active"`
	SortOrder     int       `json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Order struct {
	ID                uuid.UUID       `json:"id"`
	CustomerName      string          `json:"customer_name"`
	CustomerEmail     string          `json:"customer_email"`
	CustomerPhone     string          `json:"customer_phone"`
	ShippingAddress   string          `json:"shipping_address"`
	ShippingBarangay  string          `json:"shipping_barangay"`
	ShippingCity      string          `json:"shipping_city"`
	ShippingState     string          `json:"shipping_state"`
	ShippingZipCode   string          `json:"shipping_zip_code"`
	ShippingLocation  string          `json:"shipping_location"`
	ShippingFee       decimal.Decimal `json:"shipping_fee"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	PaymentMethodID   *uuid.UUID      `json:"payment_method_id,omitempty"`
	PaymentMethodName *string         `json:"payment_method_name,omitempty"`
	ContactMethod     *string         `json:"contact_method,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	OrderStatus       string          `json:"order_status"`
	PaymentStatus     string          `json:"payment_status"`
	Items             []OrderItem     `json:"order_items"`
	CreatedAt         time.Time       `json:"created_at"`
}

// GrandTotal is the item subtotal plus the shipping fee.
func (o Order) GrandTotal() decimal.Decimal {
	return o.TotalPrice.Add(o.ShippingFee)
}

type OrderItem struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	VariationID      *uuid.UUID      `json:"variation_id,omitempty"`
	VariationName    *string         `json:"variation_name,omitempty"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	Total            decimal.Decimal `json:"total"`
	PurityPercentage decimal.Decimal `json:"purity_percentage"`
}

const (
	OrderStatusNew       = "new"
	PaymentStatusPending = "pending"
)

// Preferences is the closed set of optional assessment preferences.
type Preferences struct {
	Frequency Frequency `json:"frequency,omitempty"`
}

type Frequency string

const (
	FrequencyUnset    Frequency = ""
	FrequencyDaily    Frequency = "Daily"
	FrequencyWeekly   Frequency = "Weekly"
	FrequencyAsNeeded Frequency = "As needed"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyUnset, FrequencyDaily, FrequencyWeekly, FrequencyAsNeeded:
		return true
	}
	return false
}

type AssessmentResponse struct {
	ID              uuid.UUID   `json:"id"`
	FullName        string      `json:"full_name"`
	Email           string      `json:"email"`
	AgeRange        string      `json:"age_range"`
	Location        string      `json:"location"`
	Goals           []string    `json:"goals"`
	MedicalHistory  []string    `json:"medical_history"`
	ExperienceLevel string      `json:"experience_level"`
	Preferences     Preferences `json:"preferences"`
	ConsentAgreed   bool        `json:"consent_agreed"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

const AssessmentStatusNew = "new"
