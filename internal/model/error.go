package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeUnknownReference  = "UNKNOWN_REFERENCE"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeStockInsufficient = "STOCK_INSUFFICIENT"
	ErrCodeStockConflict     = "STOCK_CONFLICT"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeSeedDisabled      = "SEED_DISABLED"
	ErrCodeSMTPUnavailable   = "SMTP_UNAVAILABLE"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrUnknownReference = NewDomainError(ErrCodeUnknownReference, "Unknown product reference")
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrOrderNotFound    = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrSeedDisabled     = NewDomainError(ErrCodeSeedDisabled, "Seeding is disabled")
	ErrSMTPUnavailable  = NewDomainError(ErrCodeSMTPUnavailable, "SMTP configuration is missing")
)

// StockError reports a stock reservation failure and names the
// offending product reference so the storefront can point at the line.
type StockError struct {
	Reference string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return "insufficient stock for reference " + e.Reference
}

// ValidationError lists the delivery/payment fields missing from a
// checkout submission. Submission is blocked while any are present.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	msg := "missing required fields:"
	for _, f := range e.Fields {
		msg += " " + f
	}
	return msg
}
