package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeBidNotFound       = "BID_REQUEST_NOT_FOUND"
	ErrCodeSellerBidMissing  = "SELLER_BID_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeNotActive         = "BID_REQUEST_NOT_ACTIVE"
	ErrCodeExpired           = "BID_REQUEST_EXPIRED"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeCounterNotPending = "COUNTER_ON_NON_PENDING_BID"
	ErrCodeInvalidDuration   = "INVALID_DURATION"
	ErrCodeInvalidPrice      = "INVALID_PRICE"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidPercent    = "INVALID_PAYMENT_PERCENT"
	ErrCodeCartEmpty         = "CART_EMPTY"
	ErrCodeInvalidCoupon     = "INVALID_COUPON"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a typed business-logic failure. Domain errors are terminal
// from the caller's perspective; only storage errors are worth retrying.
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
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrBidNotFound       = NewDomainError(ErrCodeBidNotFound, "Bid request not found")
	ErrSellerBidNotFound = NewDomainError(ErrCodeSellerBidMissing, "Seller bid not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound      = NewDomainError(ErrCodeUserNotFound, "User not found")

	ErrBidNotActive      = NewDomainError(ErrCodeNotActive, "Bid request is no longer active")
	ErrBidExpired        = NewDomainError(ErrCodeExpired, "Bid request has expired")
	ErrBidNotPending     = NewDomainError(ErrCodeInvalidState, "Seller bid is not pending")
	ErrBidNotCountered   = NewDomainError(ErrCodeInvalidState, "Seller bid has no counter-offer to respond to")
	ErrCounterNotPending = NewDomainError(ErrCodeCounterNotPending, "Only a pending seller bid can be countered")

	ErrInvalidDuration = NewDomainError(ErrCodeInvalidDuration, "Duration must be a positive number of hours")
	ErrInvalidPrice    = NewDomainError(ErrCodeInvalidPrice, "Price must be greater than zero")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPercent  = NewDomainError(ErrCodeInvalidPercent, "Advance payment percent must be between 10 and 100")
	ErrCartEmpty       = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrInvalidCoupon   = NewDomainError(ErrCodeInvalidCoupon, "Coupon code is not valid")
)
