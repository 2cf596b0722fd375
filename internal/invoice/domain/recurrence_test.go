package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecurrenceDueDaily(t *testing.T) {
	if !RecurrenceDue(FrequencyDaily, nil, date(2026, time.March, 10)) {
		t.Fatalf("daily must always be due")
	}
}

func TestRecurrenceDueWeeklyMondayIndexing(t *testing.T) {
	// 2026-03-09 is a Monday.
	monday := 0
	if !RecurrenceDue(FrequencyWeekly, &monday, date(2026, time.March, 9)) {
		t.Fatalf("expected due on Monday with day=0")
	}
	if RecurrenceDue(FrequencyWeekly, &monday, date(2026, time.March, 10)) {
		t.Fatalf("Tuesday must not match day=0")
	}

	sunday := 6
	if !RecurrenceDue(FrequencyWeekly, &sunday, date(2026, time.March, 15)) {
		t.Fatalf("expected due on Sunday with day=6")
	}
}

func TestRecurrenceDueMonthly(t *testing.T) {
	day := 15
	if !RecurrenceDue(FrequencyMonthly, &day, date(2026, time.March, 15)) {
		t.Fatalf("expected due on the 15th")
	}
	if RecurrenceDue(FrequencyMonthly, &day, date(2026, time.March, 14)) {
		t.Fatalf("the 14th must not match day=15")
	}
}

func TestRecurrenceDueMonthlyClampsShortMonths(t *testing.T) {
	day := 31
	if !RecurrenceDue(FrequencyMonthly, &day, date(2026, time.April, 30)) {
		t.Fatalf("day 31 must clamp to April 30")
	}
	if RecurrenceDue(FrequencyMonthly, &day, date(2026, time.April, 29)) {
		t.Fatalf("April 29 must not match day=31")
	}
	// February in a non-leap year.
	if !RecurrenceDue(FrequencyMonthly, &day, date(2026, time.February, 28)) {
		t.Fatalf("day 31 must clamp to February 28")
	}
	// Leap year February.
	if !RecurrenceDue(FrequencyMonthly, &day, date(2028, time.February, 29)) {
		t.Fatalf("day 31 must clamp to February 29 in leap years")
	}
}

func TestValidateRecurrenceBounds(t *testing.T) {
	for day := 0; day <= 6; day++ {
		d := day
		if err := ValidateRecurrence(FrequencyWeekly, &d); err != nil {
			t.Fatalf("weekly day %d: %v", day, err)
		}
	}
	for _, day := range []int{1, 31} {
		d := day
		if err := ValidateRecurrence(FrequencyMonthly, &d); err != nil {
			t.Fatalf("monthly day %d: %v", day, err)
		}
	}
	if err := ValidateRecurrence(FrequencyDaily, nil); err != nil {
		t.Fatalf("daily: %v", err)
	}
}
