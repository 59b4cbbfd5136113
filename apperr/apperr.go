package apperr

import "errors"

// Kind groups errors by how the caller is expected to react.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a business error with a stable code. Services wrap these with
// fmt.Errorf("...: %w", ...) to add detail.
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

var (
	ErrNotFound = newError(KindNotFound, "NOT_FOUND", "resource not found")

	ErrProductInactive   = newError(KindConflict, "PRODUCT_INACTIVE", "product is inactive")
	ErrInsufficientStock = newError(KindConflict, "INSUFFICIENT_STOCK", "not enough stock")
	ErrCartEmpty         = newError(KindConflict, "CART_EMPTY", "cart is currently empty")
	ErrDuplicateStock    = newError(KindConflict, "DUPLICATE_STOCK", "product already registered in stock")
	ErrDuplicateProduct  = newError(KindConflict, "DUPLICATE_PRODUCT", "product name already registered")
	ErrDuplicateEmail    = newError(KindConflict, "DUPLICATE_EMAIL", "email already registered")
	ErrDeleteNotAllowed  = newError(KindConflict, "DELETE_NOT_ALLOWED", "product has already been purchased")

	ErrInvalidPeriod   = newError(KindInvalidInput, "INVALID_PERIOD", "invalid period, use 'day', 'week' or 'month'")
	ErrInvalidQuantity = newError(KindInvalidInput, "INVALID_QUANTITY", "quantity must be a positive integer")
	ErrInvalidInput    = newError(KindInvalidInput, "INVALID_INPUT", "invalid input")

	ErrInvalidCredentials = newError(KindUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	ErrUnauthorized       = newError(KindUnauthorized, "UNAUTHORIZED", "missing or invalid token")
	ErrForbidden          = newError(KindForbidden, "FORBIDDEN", "access to this resource is not allowed")
)

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
