package domain

import "time"

// Day-of-week indexing for weekly recurrence follows the original contract:
// Monday is 0, Sunday is 6.
const (
	minWeekday = 0
	maxWeekday = 6
	minMonthday = 1
	maxMonthday = 31
)

// ValidateRecurrence enforces the frequency/day invariants for an active
// recurrence: weekly needs a day in [0,6], monthly a day in [1,31], and
// daily must not carry a day at all.
func ValidateRecurrence(frequency Frequency, day *int) error {
	switch frequency {
	case FrequencyDaily:
		return nil
	case FrequencyWeekly:
		if day == nil {
			return ErrInvalidRecurrenceDay
		}
		if *day < minWeekday || *day > maxWeekday {
			return ErrInvalidRecurrenceDay
		}
		return nil
	case FrequencyMonthly:
		if day == nil {
			return ErrInvalidRecurrenceDay
		}
		if *day < minMonthday || *day > maxMonthday {
			return ErrInvalidRecurrenceDay
		}
		return nil
	case "":
		return ErrMissingRecurrenceFrequency
	default:
		return ErrInvalidRecurrenceFrequency
	}
}

// RecurrenceDue reports whether a recurring invoice should generate a copy
// on the given day. Monthly days beyond the current month's length fire on
// the month's last day, so a day-31 schedule still runs in April.
func RecurrenceDue(frequency Frequency, day *int, today time.Time) bool {
	switch frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		if day == nil {
			return false
		}
		return mondayIndex(today.Weekday()) == *day
	case FrequencyMonthly:
		if day == nil {
			return false
		}
		target := *day
		if last := lastDayOfMonth(today); target > last {
			target = last
		}
		return today.Day() == target
	default:
		return false
	}
}

// mondayIndex converts Go's Sunday-first weekday to the Monday=0 indexing
// used on the wire.
func mondayIndex(weekday time.Weekday) int {
	return (int(weekday) + 6) % 7
}

func lastDayOfMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
