package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses carried over from the legacy document store.
const (
	PaymentStatusPaid    = "payee"
	PaymentStatusPending = "en_attente"
	PaymentStatusLate    = "retard"
)

// Payment providers accepted at checkout.
const (
	ProviderPayPal = "paypal"
	ProviderCard   = "card"
)

// OrderLine is the canonical shape of an order line item. Legacy
// documents carrying variant field names are normalized into this
// shape at the repository boundary (see NormalizeOrderLines).
type OrderLine struct {
	Reference   string  `json:"reference,omitempty"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPriceHT float64 `json:"unitPriceHT"`
	TotalHT     float64 `json:"totalHT"`
}

// Totals holds the tax-exclusive subtotal, the tax amount and the
// tax-inclusive total of an order. Currency is EUR or PEN.
type Totals struct {
	SubtotalHT float64 `json:"subtotalHT"`
	Tax        float64 `json:"tax"`
	TotalTTC   float64 `json:"totalTTC"`
	Currency   string  `json:"currency"`
}

// Buyer holds the buyer identity fields denormalized onto the order
// at creation time.
type Buyer struct {
	UserID    string  `json:"userId,omitempty"`
	Email     string  `json:"email,omitempty"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	Company   string  `json:"company,omitempty"`
	Siret     string  `json:"siret,omitempty"`
	Remise    float64 `json:"remise,omitempty"`
}

// Shipping is the delivery address snapshot taken at checkout.
type Shipping struct {
	ContactName  string `json:"contactName,omitempty"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Phone        string `json:"phone"`
	DeliveryType string `json:"deliveryType"`
}

// Order is created once at checkout completion and never mutated
// afterwards. Locale is resolved and persisted at creation time so
// that historical invoices render with the region in effect when the
// order was placed.
type Order struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Buyer         Buyer       `json:"buyer"`
	Lines         []OrderLine `json:"lines"`
	Totals        Totals      `json:"totals"`
	PaymentStatus string      `json:"paymentStatus" db:"payment_status"`
	Provider      string      `json:"paymentProvider" db:"payment_provider"`
	PaymentID     string      `json:"paymentId,omitempty" db:"payment_id"`
	Shipping      *Shipping   `json:"shipping,omitempty"`
	Locale        string      `json:"locale" db:"locale"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
}

// Payment is the secondary record written alongside the order, in the
// same transaction. Totals are duplicated by convention.
type Payment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"orderId" db:"order_id"`
	Totals    Totals    `json:"totals"`
	Status    string    `json:"status" db:"status"`
	Provider  string    `json:"provider" db:"provider"`
	PaymentID string    `json:"paymentId,omitempty" db:"payment_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// StockReservation is one product decrement requested inside the
// checkout transaction.
type StockReservation struct {
	Reference string
	Quantity  int
}

// CheckoutRequest is the request payload for creating an order.
type CheckoutRequest struct {
	Channel      string      `json:"channel"` // "b2c" or "b2b"
	QuickOrder   bool        `json:"quickOrder,omitempty"`
	CartOwner    string      `json:"cartOwner,omitempty"` // b2c: cart to check out and clear
	Buyer        Buyer       `json:"buyer"`
	Lines        []OrderLine `json:"lines"`
	Currency     string      `json:"currency,omitempty"`
	Region       string      `json:"region,omitempty"`   // explicit region, preferred
	Timezone     string      `json:"timezone,omitempty"` // heuristic fallback
	ClientLocale string      `json:"locale,omitempty"`   // heuristic fallback
	Provider     string      `json:"paymentProvider"`
	PaymentID    string      `json:"paymentId,omitempty"`
	Shipping     Shipping    `json:"shipping"`
	UseSaved     bool        `json:"useSavedAddress,omitempty"`
	Email        string      `json:"email,omitempty"` // invoice recipient
}

// CheckoutResponse is returned after a successful checkout.
type CheckoutResponse struct {
	OrderID       uuid.UUID `json:"orderId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	Totals        Totals    `json:"totals"`
	Locale        string    `json:"locale"`
}
