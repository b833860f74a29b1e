package apperror

import "net/http"

// Error categories reported to clients alongside the message.
const (
	CategoryValidation      = "validation error"
	CategoryInvalidArgument = "invalid argument"
	CategoryAccessDenied    = "access denied"
	CategoryNotFound        = "not found"
	CategoryConflict        = "conflict"
	CategoryInternal        = "internal server error"
)

// AppError is a custom error type that includes an HTTP status code and a category label.
type AppError struct {
	Code     int    // HTTP Status Code (e.g., 400, 404)
	Category string // Coarse error kind shown to the client
	Message  string // User-facing error message
	Err      error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code and message.
// Sentinels declared with the constructors below can therefore be matched with errors.Is
// even after being re-created with a wrapped cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new AppError with a status code and message.
// The category is derived from the status code.
func New(code int, message string) *AppError {
	return &AppError{
		Code:     code,
		Category: categoryFor(code),
		Message:  message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:     code,
		Category: categoryFor(code),
		Message:  message,
		Err:      err,
	}
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func AccessDenied(message string) *AppError {
	return New(http.StatusForbidden, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

// InvalidArgument marks an unrecognized enumeration value. It maps to 400 like a
// validation error but carries its own category.
func InvalidArgument(message string) *AppError {
	return &AppError{
		Code:     http.StatusBadRequest,
		Category: CategoryInvalidArgument,
		Message:  message,
	}
}

func categoryFor(code int) string {
	switch code {
	case http.StatusBadRequest:
		return CategoryValidation
	case http.StatusForbidden:
		return CategoryAccessDenied
	case http.StatusNotFound:
		return CategoryNotFound
	case http.StatusConflict:
		return CategoryConflict
	default:
		return CategoryInternal
	}
}
