package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound    = errors.New("invoice_not_found")
	ErrCustomerNotFound   = errors.New("customer_not_found")
	ErrBankAccountNotFound = errors.New("bank_account_not_found")

	ErrMissingCustomer  = errors.New("missing_customer")
	ErrMissingIssueDate = errors.New("missing_issue_date")
	ErrMissingDueDate   = errors.New("missing_due_date")
	ErrInvalidIssueDate = errors.New("invalid_issue_date")
	ErrInvalidDueDate   = errors.New("invalid_due_date")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidCurrency  = errors.New("invalid_currency")
	ErrNoServices       = errors.New("at_least_one_service_required")

	ErrInvalidServiceTitle = errors.New("invalid_service_title")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrServiceLineNotFound = errors.New("service_line_not_found")

	ErrMissingRecurrenceFrequency = errors.New("missing_recurrence_frequency")
	ErrInvalidRecurrenceFrequency = errors.New("invalid_recurrence_frequency")
	ErrInvalidRecurrenceDay       = errors.New("invalid_recurrence_day")
)

// IsValidationError reports whether err is a local precondition failure, as
// opposed to a lookup miss or an infrastructure error.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrMissingCustomer),
		errors.Is(err, ErrMissingIssueDate),
		errors.Is(err, ErrMissingDueDate),
		errors.Is(err, ErrInvalidIssueDate),
		errors.Is(err, ErrInvalidDueDate),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidCurrency),
		errors.Is(err, ErrNoServices),
		errors.Is(err, ErrInvalidServiceTitle),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrMissingRecurrenceFrequency),
		errors.Is(err, ErrInvalidRecurrenceFrequency),
		errors.Is(err, ErrInvalidRecurrenceDay):
		return true
	default:
		return false
	}
}

// IsNotFoundError reports whether err identifies a missing record or line.
func IsNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrInvoiceNotFound),
		errors.Is(err, ErrServiceLineNotFound),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrBankAccountNotFound):
		return true
	default:
		return false
	}
}
