package model

// Invoice locales. The locale is resolved at order creation and
// persisted on the order; currency remains the fallback signal for
// documents imported from the legacy store.
const (
	LocaleFR = "fr"
	LocalePE = "pe"
)

// InvoiceLine is one row of the invoice table.
type InvoiceLine struct {
	Qty         int     `json:"qty"`
	Unit        string  `json:"unit"`
	Code        string  `json:"code,omitempty"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	Discount    float64 `json:"discount,omitempty"`
}

// InvoiceParty identifies the buyer or the seller on the document.
type InvoiceParty struct {
	Name         string   `json:"name"`
	Company      string   `json:"company,omitempty"`
	AddressLines []string `json:"addressLines"`
	City         string   `json:"city,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	RUC          string   `json:"ruc,omitempty"`   // PE tax id
	Siret        string   `json:"siret,omitempty"` // FR
	APE          string   `json:"ape,omitempty"`   // FR
	VATID        string   `json:"vatId,omitempty"` // FR intracom
}

// InvoiceTotals carries the amounts plus the locale-specific tax label
// ("TVA 20%" or "IGV 18%").
type InvoiceTotals struct {
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount,omitempty"`
	TaxLabel  string  `json:"taxLabel"`
	TaxAmount float64 `json:"taxAmount"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency"`
}

// Installment is one entry of the PE payment schedule.
type Installment struct {
	Amount  float64 `json:"amount"`
	DueDate string  `json:"dueDate"`
}

// InvoicePayment describes the payment terms shown on the invoice.
type InvoicePayment struct {
	Terms        string        `json:"terms"`
	Method       string        `json:"method,omitempty"`
	Installments []Installment `json:"installments,omitempty"`
}

// InvoiceData is the full input to the PDF renderer. It is rebuilt
// from the order on every render and never persisted on its own.
type InvoiceData struct {
	Locale        string         `json:"locale"`
	InvoiceNumber string         `json:"invoiceNumber"`
	OrderNumber   string         `json:"orderNumber,omitempty"`
	IssueDate     string         `json:"issueDate"`
	DueDate       string         `json:"dueDate,omitempty"`
	Serie         string         `json:"serie,omitempty"` // PE, ex. E001-1680
	Buyer         InvoiceParty   `json:"buyer"`
	Seller        InvoiceParty   `json:"seller"`
	Payment       InvoicePayment `json:"payment"`
	Lines         []InvoiceLine  `json:"lines"`
	Totals        InvoiceTotals  `json:"totals"`
	Notes         []string       `json:"notes,omitempty"`
}
