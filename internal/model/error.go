package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidClient     = "INVALID_CLIENT"
	ErrCodeInvalidLineItem   = "INVALID_LINE_ITEM"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidDiscount   = "INVALID_DISCOUNT"
	ErrCodeProductReferenced = "PRODUCT_REFERENCED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeTransactionFailed = "TRANSACTION_FAILED"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation surfaced to the caller.
// cause, when set, keeps the underlying failure on the error chain for
// server-side inspection; only Message is ever shown to the client.
type DomainError struct {
	Code    string
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.cause
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
	ErrInvalidClient     = NewDomainError(ErrCodeInvalidClient, "Client name and email are required")
	ErrInvalidLineItem   = NewDomainError(ErrCodeInvalidLineItem, "Each item must have a product ID and a quantity of at least 1")
	ErrEmptyOrder        = NewDomainError(ErrCodeInvalidLineItem, "Order must contain at least one item")
	ErrInvalidStatus     = NewDomainError(ErrCodeInvalidStatus, "Status must be one of: pending, processing, shipped, delivered, cancelled")
	ErrTerminalStatus    = NewDomainError(ErrCodeInvalidStatus, "Delivered and cancelled orders cannot change status")
	ErrOrderNotFound     = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrInvalidDiscount   = NewDomainError(ErrCodeInvalidDiscount, "Discount percentage must be between 0 and 100")
	ErrProductReferenced = NewDomainError(ErrCodeProductReferenced, "Product is referenced by historical orders and cannot be deleted")
)

// WrapTransactionFailure tags a persistence failure during order
// placement with the TRANSACTION_FAILED code, keeping the cause on the
// chain.
func WrapTransactionFailure(cause error) error {
	return &DomainError{
		Code:    ErrCodeTransactionFailed,
		Message: "Order could not be committed",
		cause:   cause,
	}
}

// ProductNotFoundError names the offending product in an order request.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.ProductID)
}

// InsufficientStockError reports a stock shortfall with enough detail
// for the caller to adjust the request and retry.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.Name, e.Available, e.Requested)
}
