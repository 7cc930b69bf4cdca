package calculator

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period selects the window for PeriodTotal.
type Period string

const (
	PeriodWeek  Period = "week"  // Monday through Sunday
	PeriodMonth Period = "month" // calendar month
)

// PeriodTotal sums the amounts of expenses that fall in the same period as now.
// Dates are compared in now's location.
func PeriodTotal(expenses []Expense, period Period, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if inSamePeriod(e.OccurredAt.In(now.Location()), now, period) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func inSamePeriod(a, b time.Time, period Period) bool {
	switch period {
	case PeriodWeek:
		return startOfWeek(a).Equal(startOfWeek(b))
	case PeriodMonth:
		return a.Year() == b.Year() && a.Month() == b.Month()
	default:
		return false
	}
}

func startOfWeek(t time.Time) time.Time {
	sinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, t.Location())
}
