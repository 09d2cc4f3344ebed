package content

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/models"
)

const (
	CategoryProductUsage      = "PRODUCT & USAGE"
	CategoryOrderingPackaging = "ORDERING & PACKAGING"
	CategoryPaymentMethods    = "PAYMENT METHODS"
	CategoryShippingDelivery  = "SHIPPING & DELIVERY"
)

// FAQCategoryOptions are the categories an admin may file an FAQ under.
var FAQCategoryOptions = []string{
	CategoryProductUsage,
	CategoryOrderingPackaging,
	CategoryPaymentMethods,
	CategoryShippingDelivery,
}

var defaultFAQs = []struct {
	category string
	question string
	answer   string
}{
	{CategoryProductUsage, "Can I use Tirzepatide?",
		"Before purchasing, please check if Tirzepatide is suitable for you.\n✔️ View the checklist here — Contact us for more details."},
	{CategoryProductUsage, "Do you reconstitute (recon) Tirzepatide?",
		"Yes — for Metro Manila orders only.\nI provide free reconstitution when you purchase the complete set.\nI use pharma-grade bacteriostatic water, and I ship it with an ice pack + insulated pouch to maintain stability."},
	{CategoryProductUsage, "What size needles and cartridges do you offer?",
		"• Needles: Compatible with all insulin-style pens (standard pen needle sizes).\n• Cartridges: Standard 3mL capacity."},
	{CategoryProductUsage, "Can the pen pusher be retracted?",
		"• Reusable pens: Yes, the pusher can be retracted.\n• Disposable pens: The pusher cannot be retracted and will stay forward once pushed."},
	{CategoryProductUsage, "How should peptides be stored?",
		"Peptides must be stored in the refrigerator, especially once reconstituted."},
	{CategoryOrderingPackaging, "What's included in my order?",
		"Depending on your chosen items:\n• 3mL cartridge\n• Pen needles\n• Optional: alcohol swabs\n• Free Tirzepatide reconstitution for Metro Manila set orders"},
	{CategoryOrderingPackaging, "Do you offer bundles or discounts?",
		"Yes — I offer curated bundles and custom sets.\nMessage me for personalized bundle options."},
	{CategoryOrderingPackaging, "Can I return items?",
		"• Pens: Returnable within 1 week if defective.\n• Needles and syringes: Not returnable for hygiene and safety."},
	{CategoryPaymentMethods, "What payment options do you accept?",
		"• GCash\n• Security Bank\n• BDO\n\n❌ COD is not accepted, except for Lalamove\n→ You can pay the rider directly or have the rider pay upfront on your behalf."},
	{CategoryShippingDelivery, "Where are you located?",
		"📍 Merville, Parañaque City"},
	{CategoryShippingDelivery, "How long is shipping?",
		"📦 J&T Express: Usually 2–3 days\n(Transit time may vary by location and sorting)"},
	{CategoryShippingDelivery, "When do orders ship out?",
		"Orders placed before 11:00 AM ship out on the next J&T schedule (Tuesday & Thursday)\n→ Subject to order volume."},
	{CategoryShippingDelivery, "Do you ship nationwide?",
		"Yes —\n• J&T Express (nationwide)\n• Lalamove (Metro Manila & nearby areas)"},
}

// DefaultFAQs is the built-in FAQ list served when the faqs table is missing
// or empty. Identifiers are stable across calls.
func DefaultFAQs() []models.FAQ {
	out := make([]models.FAQ, 0, len(defaultFAQs))
	for i, f := range defaultFAQs {
		out = append(out, models.FAQ{
			ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("storefront/faq/%d", i+1))),
			Question:   f.question,
			Answer:     f.answer,
			Category:   f.category,
			OrderIndex: i + 1,
			IsActive:   true,
		})
	}
	return out
}
