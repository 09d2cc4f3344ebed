package checkout

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/safar/storefront/internal/cart"
	"github.com/safar/storefront/internal/models"
	"github.com/shopspring/decimal"
)

const timestampLayout = "Monday, January 2, 2006 at 03:04:05 PM"

type MessageInput struct {
	Merchant      string
	PlacedAt      time.Time
	Customer      Customer
	Shipping      Shipping
	Items         []cart.Item
	Zone          Zone
	Totals        Totals
	PaymentMethod *models.PaymentMethod
	Contact       string
	OrderID       uuid.UUID
}

// Peso formats an amount with thousands separators and no forced decimals.
func Peso(d decimal.Decimal) string {
	return "₱" + humanize.Commaf(d.Round(2).InexactFloat64())
}

// FormatMessage renders the plain-text order summary sent to the merchant.
func FormatMessage(in MessageInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✨ %s - NEW ORDER\n\n", in.Merchant)

	b.WriteString("📅 ORDER DATE & TIME\n")
	b.WriteString(in.PlacedAt.Format(timestampLayout))
	b.WriteString("\n\n")

	b.WriteString("👤 CUSTOMER INFORMATION\n")
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n\n", in.Customer.Name, in.Customer.Email, in.Customer.Phone)

	b.WriteString("📦 SHIPPING ADDRESS\n")
	fmt.Fprintf(&b, "%s\n%s\n%s, %s %s\n\n",
		in.Shipping.Street, in.Shipping.Barangay, in.Shipping.City, in.Shipping.Province, in.Shipping.PostalCode)

	b.WriteString("🛒 ORDER DETAILS\n")
	lines := make([]string, 0, len(in.Items))
	for _, item := range in.Items {
		line := "• " + item.Product.Name
		if item.Variation != nil {
			line += " (" + item.Variation.Name + ")"
		}
		line += fmt.Sprintf(" x%d - %s", item.Quantity, Peso(item.LineTotal()))
		line += fmt.Sprintf("\n  Purity: %s%%", item.Product.PurityPercentage.String())
		lines = append(lines, line)
	}
	b.WriteString(strings.Join(lines, "\n\n"))
	b.WriteString("\n\n")

	b.WriteString("💰 PRICING\n")
	fmt.Fprintf(&b, "Product Total: %s\n", Peso(in.Totals.Subtotal))
	fmt.Fprintf(&b, "Shipping Fee: %s (%s)\n", Peso(in.Totals.Fee), in.Zone.Label())
	fmt.Fprintf(&b, "Grand Total: %s\n\n", Peso(in.Totals.Total))

	b.WriteString("💳 PAYMENT METHOD\n")
	if in.PaymentMethod != nil {
		fmt.Fprintf(&b, "%s\nAccount: %s\n\n", in.PaymentMethod.Name, in.PaymentMethod.AccountNumber)
	} else {
		b.WriteString("N/A\n\n")
	}

	b.WriteString("📸 PROOF OF PAYMENT\n")
	b.WriteString("Please attach your payment screenshot when sending this message.\n\n")

	b.WriteString("📱 CONTACT METHOD\n")
	fmt.Fprintf(&b, "WhatsApp: %s\n\n", in.Contact)

	fmt.Fprintf(&b, "📋 ORDER ID: %s\n\n", in.OrderID)
	b.WriteString("Please confirm this order. Thank you!")

	return strings.TrimSpace(b.String())
}

// DeepLink builds https://<domain>/<recipient>?text=<message>.
func DeepLink(domain, recipient, message string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     domain,
		Path:     "/" + recipient,
		RawQuery: "text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20"),
	}
	return u.String()
}
