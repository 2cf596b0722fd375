package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/factura/internal/auth/domain"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
	servicecatalogdomain "github.com/smallbiznis/factura/internal/servicecatalog/domain"
	transactiondomain "github.com/smallbiznis/factura/internal/transaction/domain"
	categorydomain "github.com/smallbiznis/factura/internal/transactioncategory/domain"
	"go.uber.org/zap"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrTooManyRequests = errors.New("too_many_requests")
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.Code }

func newValidationError(field, code, message string) error {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

func invalidRequestError() error {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "malformed request body",
	}
}

// AbortWithError maps domain errors onto HTTP responses with a uniform
// {"error": {...}} body. Unclassified errors become opaque 500s.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := statusForError(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.AbortWithStatusJSON(status, gin.H{"error": apiError{
			Code:    "internal_error",
			Message: "internal error",
		}})
		return
	}

	c.AbortWithStatusJSON(status, gin.H{"error": apiError{
		Code:    err.Error(),
		Message: err.Error(),
	}})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, authdomain.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, authdomain.ErrEmailTaken):
		return http.StatusConflict
	case isNotFound(err):
		return http.StatusNotFound
	case isValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isNotFound(err error) bool {
	switch {
	case invoicedomain.IsNotFoundError(err),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, bankaccountdomain.ErrNotFound),
		errors.Is(err, servicecatalogdomain.ErrNotFound),
		errors.Is(err, categorydomain.ErrNotFound),
		errors.Is(err, transactiondomain.ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound):
		return true
	default:
		return false
	}
}

func isValidation(err error) bool {
	if invoicedomain.IsValidationError(err) {
		return true
	}
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidLegalName),
		errors.Is(err, bankaccountdomain.ErrInvalidID),
		errors.Is(err, bankaccountdomain.ErrInvalidLabel),
		errors.Is(err, bankaccountdomain.ErrInvalidBeneficiary),
		errors.Is(err, bankaccountdomain.ErrInvalidAccountNumber),
		errors.Is(err, bankaccountdomain.ErrInvalidSwiftCode),
		errors.Is(err, servicecatalogdomain.ErrInvalidID),
		errors.Is(err, servicecatalogdomain.ErrInvalidTitle),
		errors.Is(err, servicecatalogdomain.ErrInvalidAmount),
		errors.Is(err, categorydomain.ErrInvalidID),
		errors.Is(err, categorydomain.ErrInvalidName),
		errors.Is(err, transactiondomain.ErrInvalidID),
		errors.Is(err, transactiondomain.ErrInvalidType),
		errors.Is(err, transactiondomain.ErrInvalidContext),
		errors.Is(err, transactiondomain.ErrInvalidDescription),
		errors.Is(err, transactiondomain.ErrInvalidAmount),
		errors.Is(err, transactiondomain.ErrInvalidDate),
		errors.Is(err, authdomain.ErrInvalidID),
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrInvalidDisplayName),
		errors.Is(err, authdomain.ErrInvalidPassword):
		return true
	default:
		return false
	}
}
