package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for invoice dates.
const DateLayout = "2006-01-02"

const defaultDueDays = 30

// minLineAmount is the smallest accepted line amount, one cent.
var minLineAmount = decimal.New(1, -2)

// ServiceLine is one billable item inside a draft. The ID is client-local
// until the invoice is persisted; hydrated drafts keep the stored identifier.
type ServiceLine struct {
	ID          string
	Title       string
	Description string
	Amount      decimal.Decimal
}

// LineInput is the caller-supplied data for a new service line.
type LineInput struct {
	Title       string
	Description string
	Amount      decimal.Decimal
}

// LinePatch carries optional field updates for an existing line.
type LinePatch struct {
	Title       *string
	Description *string
	Amount      *decimal.Decimal
}

// Draft is an in-memory invoice under construction. Every mutation validates
// before applying, so a failed operation leaves the draft untouched. The
// total is never stored: it is derived from the lines on demand.
type Draft struct {
	CustomerID    string
	BankAccountID string
	IssueDate     time.Time
	DueDate       time.Time
	Currency      string
	Status        Status
	Notes         string
	IsRecurrent   bool
	Frequency     Frequency
	RecurrenceDay *int

	lines []ServiceLine
}

// NewDraft starts an empty draft with the stock defaults: USD, draft status,
// issued today and due in 30 days.
func NewDraft(today time.Time) *Draft {
	issue := truncateToDate(today)
	return &Draft{
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, defaultDueDays),
		Currency:  "USD",
		Status:    StatusDraft,
	}
}

// DraftFromInvoice hydrates a draft from a persisted invoice for editing.
// Header fields carry over verbatim; lines keep their stored identifiers.
func DraftFromInvoice(inv Invoice) *Draft {
	d := &Draft{
		CustomerID:  inv.CustomerID.String(),
		IssueDate:   truncateToDate(inv.IssueDate),
		DueDate:     truncateToDate(inv.DueDate),
		Currency:    inv.Currency,
		Status:      inv.Status,
		IsRecurrent: inv.IsRecurrent,
	}
	if inv.BankAccountID != nil {
		d.BankAccountID = inv.BankAccountID.String()
	}
	if inv.Notes != nil {
		d.Notes = *inv.Notes
	}
	if inv.IsRecurrent && inv.RecurrenceFrequency != nil {
		d.Frequency = *inv.RecurrenceFrequency
		if inv.RecurrenceDay != nil {
			day := *inv.RecurrenceDay
			d.RecurrenceDay = &day
		}
	}
	d.lines = make([]ServiceLine, 0, len(inv.Services))
	for _, svc := range inv.Services {
		line := ServiceLine{
			ID:     svc.ID.String(),
			Title:  svc.ServiceTitle,
			Amount: svc.Amount,
		}
		if svc.ServiceDescription != nil {
			line.Description = *svc.ServiceDescription
		}
		d.lines = append(d.lines, line)
	}
	return d
}

// Lines returns a copy of the current service lines in authoring order.
func (d *Draft) Lines() []ServiceLine {
	out := make([]ServiceLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// AddService validates and appends a new line, returning it with a fresh
// client-local identifier.
func (d *Draft) AddService(input LineInput) (ServiceLine, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ServiceLine{}, ErrInvalidServiceTitle
	}
	if err := validateAmount(input.Amount); err != nil {
		return ServiceLine{}, err
	}
	line := ServiceLine{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
	}
	d.lines = append(d.lines, line)
	return line, nil
}

// EditService applies a patch to the line with the given id, keeping its
// position. Patched fields go through the same validation as AddService.
func (d *Draft) EditService(id string, patch LinePatch) (ServiceLine, error) {
	idx := d.indexOf(id)
	if idx < 0 {
		return ServiceLine{}, ErrServiceLineNotFound
	}

	updated := d.lines[idx]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return ServiceLine{}, ErrInvalidServiceTitle
		}
		updated.Title = title
	}
	if patch.Description != nil {
		updated.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return ServiceLine{}, err
		}
		updated.Amount = *patch.Amount
	}

	d.lines[idx] = updated
	return updated, nil
}

// RemoveService drops the line with the given id. Removing an unknown id is
// a no-op: callers derive the id list from current state, so a miss only
// means the line is already gone.
func (d *Draft) RemoveService(id string) {
	idx := d.indexOf(id)
	if idx < 0 {
		return
	}
	d.lines = append(d.lines[:idx], d.lines[idx+1:]...)
}

// Total derives the invoice total as the exact decimal sum of all lines.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.lines {
		total = total.Add(line.Amount)
	}
	return total
}

// SetRecurrence turns recurrence on or off, enforcing the frequency/day
// invariants. It never auto-clears a stale day when the frequency changes;
// the caller owns that reset.
func (d *Draft) SetRecurrence(recurrent bool, frequency Frequency, day *int) error {
	if !recurrent {
		d.IsRecurrent = false
		d.Frequency = ""
		d.RecurrenceDay = nil
		return nil
	}
	if err := ValidateRecurrence(frequency, day); err != nil {
		return err
	}
	d.IsRecurrent = true
	d.Frequency = frequency
	if frequency == FrequencyDaily {
		d.RecurrenceDay = nil
	} else {
		value := *day
		d.RecurrenceDay = &value
	}
	return nil
}

// BuildPayload normalizes the draft into a create/update payload: at least
// one line, dates as YYYY-MM-DD, sort_order reassigned as the dense position
// index, and recurrence fields omitted entirely when recurrence is off.
func (d *Draft) BuildPayload() (CreatePayload, error) {
	if strings.TrimSpace(d.CustomerID) == "" {
		return CreatePayload{}, ErrMissingCustomer
	}
	if d.IssueDate.IsZero() {
		return CreatePayload{}, ErrMissingIssueDate
	}
	if d.DueDate.IsZero() {
		return CreatePayload{}, ErrMissingDueDate
	}
	if len(d.lines) == 0 {
		return CreatePayload{}, ErrNoServices
	}

	payload := CreatePayload{
		CustomerID:    d.CustomerID,
		IssueDate:     d.IssueDate.Format(DateLayout),
		DueDate:       d.DueDate.Format(DateLayout),
		Currency:      d.Currency,
		Status:        string(d.Status),
		BankAccountID: d.BankAccountID,
		Notes:         d.Notes,
		Services:      make([]ServicePayload, 0, len(d.lines)),
	}
	for i, line := range d.lines {
		payload.Services = append(payload.Services, ServicePayload{
			ServiceTitle:       line.Title,
			ServiceDescription: line.Description,
			Amount:             line.Amount,
			SortOrder:          i,
		})
	}
	if d.IsRecurrent {
		payload.IsRecurrent = true
		freq := string(d.Frequency)
		payload.RecurrenceFrequency = &freq
		if d.RecurrenceDay != nil {
			day := *d.RecurrenceDay
			payload.RecurrenceDay = &day
		}
	}
	return payload, nil
}

func (d *Draft) indexOf(id string) int {
	for i, line := range d.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

func validateAmount(amount decimal.Decimal) error {
	if amount.Cmp(minLineAmount) < 0 {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
