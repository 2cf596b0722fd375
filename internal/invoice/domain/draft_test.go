package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testToday() time.Time {
	return time.Date(2026, time.March, 10, 15, 4, 5, 0, time.UTC)
}

func mustAmount(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse amount %q: %v", raw, err)
	}
	return value
}

func addLine(t *testing.T, d *Draft, title, amount string) ServiceLine {
	t.Helper()
	line, err := d.AddService(LineInput{Title: title, Amount: mustAmount(t, amount)})
	if err != nil {
		t.Fatalf("add service %q: %v", title, err)
	}
	return line
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft(testToday())

	if d.Currency != "USD" {
		t.Fatalf("expected USD, got %q", d.Currency)
	}
	if d.Status != StatusDraft {
		t.Fatalf("expected draft status, got %q", d.Status)
	}
	if got := d.IssueDate; !got.Equal(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected issue date %v", got)
	}
	if got := d.DueDate; !got.Equal(time.Date(2026, time.April, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected due in 30 days, got %v", got)
	}
}

func TestTotalIsExactDecimalSum(t *testing.T) {
	d := NewDraft(testToday())
	addLine(t, d, "Consulting", "10.00")
	addLine(t, d, "Hosting", "0.01")

	if got := d.Total(); !got.Equal(mustAmount(t, "10.01")) {
		t.Fatalf("expected 10.01, got %s", got)
	}

	addLine(t, d, "Retainer", "150.00")
	addLine(t, d, "Audit", "339.98")
	if got := d.Total(); !got.Equal(mustAmount(t, "499.99")) {
		t.Fatalf("expected 499.99, got %s", got)
	}
}

func TestAddServiceRejectsBadAmounts(t *testing.T) {
	d := NewDraft(testToday())

	cases := []string{"0", "0.001", "-5.00", "10.005"}
	for _, raw := range cases {
		if _, err := d.AddService(LineInput{Title: "X", Amount: mustAmount(t, raw)}); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %s: expected ErrInvalidAmount, got %v", raw, err)
		}
	}
	if len(d.Lines()) != 0 {
		t.Fatalf("failed adds must not mutate the draft")
	}
}

func TestAddServiceRequiresTitle(t *testing.T) {
	d := NewDraft(testToday())
	if _, err := d.AddService(LineInput{Title: "   ", Amount: mustAmount(t, "1.00")}); !errors.Is(err, ErrInvalidServiceTitle) {
		t.Fatalf("expected ErrInvalidServiceTitle, got %v", err)
	}
}

func TestEditServiceValidatesPatch(t *testing.T) {
	d := NewDraft(testToday())
	line := addLine(t, d, "Consulting", "100.00")

	bad := mustAmount(t, "0.001")
	if _, err := d.EditService(line.ID, LinePatch{Amount: &bad}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if got := d.Lines()[0].Amount; !got.Equal(mustAmount(t, "100.00")) {
		t.Fatalf("failed edit must not mutate the line, got %s", got)
	}

	good := mustAmount(t, "125.50")
	title := "Consulting (March)"
	updated, err := d.EditService(line.ID, LinePatch{Title: &title, Amount: &good})
	if err != nil {
		t.Fatalf("edit service: %v", err)
	}
	if updated.Title != title || !updated.Amount.Equal(good) {
		t.Fatalf("unexpected updated line %+v", updated)
	}
	if got := d.Total(); !got.Equal(good) {
		t.Fatalf("expected total %s, got %s", good, got)
	}
}

func TestEditUnknownLine(t *testing.T) {
	d := NewDraft(testToday())
	if _, err := d.EditService("missing", LinePatch{}); !errors.Is(err, ErrServiceLineNotFound) {
		t.Fatalf("expected ErrServiceLineNotFound, got %v", err)
	}
}

func TestRemoveServiceExcludesFromTotal(t *testing.T) {
	d := NewDraft(testToday())
	keep := addLine(t, d, "Keep", "10.00")
	drop := addLine(t, d, "Drop", "5.00")

	d.RemoveService(drop.ID)

	lines := d.Lines()
	if len(lines) != 1 || lines[0].ID != keep.ID {
		t.Fatalf("expected only the kept line, got %+v", lines)
	}
	if got := d.Total(); !got.Equal(mustAmount(t, "10.00")) {
		t.Fatalf("expected 10.00, got %s", got)
	}
}

func TestRemoveUnknownLineIsNoOp(t *testing.T) {
	d := NewDraft(testToday())
	addLine(t, d, "Keep", "10.00")

	d.RemoveService("missing")

	if len(d.Lines()) != 1 {
		t.Fatalf("remove of unknown id must not change lines")
	}
}

func TestBuildPayloadRequiresLines(t *testing.T) {
	d := NewDraft(testToday())
	d.CustomerID = "42"

	if _, err := d.BuildPayload(); !errors.Is(err, ErrNoServices) {
		t.Fatalf("expected ErrNoServices, got %v", err)
	}
}

func TestBuildPayloadRequiresCustomer(t *testing.T) {
	d := NewDraft(testToday())
	addLine(t, d, "Consulting", "10.00")

	if _, err := d.BuildPayload(); !errors.Is(err, ErrMissingCustomer) {
		t.Fatalf("expected ErrMissingCustomer, got %v", err)
	}
}

func TestBuildPayloadAssignsDenseSortOrder(t *testing.T) {
	d := NewDraft(testToday())
	d.CustomerID = "42"
	first := addLine(t, d, "A", "1.00")
	addLine(t, d, "B", "2.00")
	addLine(t, d, "C", "3.00")
	d.RemoveService(first.ID)

	payload, err := d.BuildPayload()
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}
	if len(payload.Services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(payload.Services))
	}
	for i, svc := range payload.Services {
		if svc.SortOrder != i {
			t.Fatalf("expected sort_order %d, got %d", i, svc.SortOrder)
		}
	}
	if payload.Services[0].ServiceTitle != "B" || payload.Services[1].ServiceTitle != "C" {
		t.Fatalf("authoring order lost: %+v", payload.Services)
	}
}

func TestBuildPayloadOmitsRecurrenceWhenOff(t *testing.T) {
	d := NewDraft(testToday())
	d.CustomerID = "42"
	addLine(t, d, "Consulting", "10.00")

	day := 3
	if err := d.SetRecurrence(true, FrequencyWeekly, &day); err != nil {
		t.Fatalf("set recurrence: %v", err)
	}
	if err := d.SetRecurrence(false, "", nil); err != nil {
		t.Fatalf("disable recurrence: %v", err)
	}

	payload, err := d.BuildPayload()
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}
	if payload.IsRecurrent {
		t.Fatalf("expected is_recurrent=false")
	}
	if payload.RecurrenceFrequency != nil || payload.RecurrenceDay != nil {
		t.Fatalf("recurrence fields must be omitted after disable, got %+v", payload)
	}
}

func TestBuildPayloadCarriesRecurrence(t *testing.T) {
	d := NewDraft(testToday())
	d.CustomerID = "42"
	addLine(t, d, "Consulting", "10.00")

	day := 15
	if err := d.SetRecurrence(true, FrequencyMonthly, &day); err != nil {
		t.Fatalf("set recurrence: %v", err)
	}

	payload, err := d.BuildPayload()
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}
	if !payload.IsRecurrent {
		t.Fatalf("expected is_recurrent=true")
	}
	if payload.RecurrenceFrequency == nil || *payload.RecurrenceFrequency != "monthly" {
		t.Fatalf("unexpected frequency %v", payload.RecurrenceFrequency)
	}
	if payload.RecurrenceDay == nil || *payload.RecurrenceDay != 15 {
		t.Fatalf("unexpected day %v", payload.RecurrenceDay)
	}
}

func TestSetRecurrenceValidation(t *testing.T) {
	d := NewDraft(testToday())

	if err := d.SetRecurrence(true, FrequencyWeekly, nil); !errors.Is(err, ErrInvalidRecurrenceDay) {
		t.Fatalf("weekly without day: expected ErrInvalidRecurrenceDay, got %v", err)
	}

	day := 7
	if err := d.SetRecurrence(true, FrequencyWeekly, &day); !errors.Is(err, ErrInvalidRecurrenceDay) {
		t.Fatalf("weekly day 7: expected ErrInvalidRecurrenceDay, got %v", err)
	}

	day = 32
	if err := d.SetRecurrence(true, FrequencyMonthly, &day); !errors.Is(err, ErrInvalidRecurrenceDay) {
		t.Fatalf("monthly day 32: expected ErrInvalidRecurrenceDay, got %v", err)
	}

	day = 0
	if err := d.SetRecurrence(true, FrequencyMonthly, &day); !errors.Is(err, ErrInvalidRecurrenceDay) {
		t.Fatalf("monthly day 0: expected ErrInvalidRecurrenceDay, got %v", err)
	}

	if err := d.SetRecurrence(true, "yearly", nil); !errors.Is(err, ErrInvalidRecurrenceFrequency) {
		t.Fatalf("expected ErrInvalidRecurrenceFrequency, got %v", err)
	}

	if err := d.SetRecurrence(true, "", nil); !errors.Is(err, ErrMissingRecurrenceFrequency) {
		t.Fatalf("expected ErrMissingRecurrenceFrequency, got %v", err)
	}
}

func TestSetRecurrenceDailyDropsDay(t *testing.T) {
	d := NewDraft(testToday())
	day := 4
	if err := d.SetRecurrence(true, FrequencyDaily, &day); err != nil {
		t.Fatalf("daily recurrence: %v", err)
	}
	if d.RecurrenceDay != nil {
		t.Fatalf("daily recurrence must not keep a day")
	}
}

func TestDraftRoundTripKeepsLines(t *testing.T) {
	d := NewDraft(testToday())
	d.CustomerID = "42"
	addLine(t, d, "A", "150.00")
	addLine(t, d, "B", "349.99")

	payload, err := d.BuildPayload()
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}

	total := decimal.Zero
	for _, svc := range payload.Services {
		total = total.Add(svc.Amount)
	}
	if !total.Equal(d.Total()) || !total.Equal(mustAmount(t, "499.99")) {
		t.Fatalf("payload total %s diverges from draft total %s", total, d.Total())
	}
}
