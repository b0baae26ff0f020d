package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrVendorNotFound   = errors.New("vendor not found")
	ErrBuyerRequired    = errors.New("buyer id required")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCatalogStale     = errors.New("catalog snapshot stale")
	ErrHistoryCorrupt   = errors.New("view history corrupt")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInternal         = errors.New("internal error")
	ErrTimeout          = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrVendorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBuyerRequired):
		return http.StatusBadRequest
	case errors.Is(err, ErrCatalogStale), errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
