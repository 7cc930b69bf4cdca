package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(date string) time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPeriodTotal(t *testing.T) {
	// Wednesday
	now := at("2026-10-14").Add(15 * time.Hour)
	expenses := []Expense{
		{Amount: dec("10"), OccurredAt: at("2026-10-12")},                     // Monday, same week
		{Amount: dec("20"), OccurredAt: at("2026-10-18").Add(23 * time.Hour)}, // Sunday, same week
		{Amount: dec("40"), OccurredAt: at("2026-10-11")},                     // previous Sunday
		{Amount: dec("80"), OccurredAt: at("2026-10-01")},                     // same month
		{Amount: dec("160"), OccurredAt: at("2026-09-30")},                    // previous month
		{Amount: dec("320"), OccurredAt: at("2025-10-14")},                    // same month, last year
	}

	assertDecimal(t, "30", PeriodTotal(expenses, PeriodWeek, now))
	assertDecimal(t, "150", PeriodTotal(expenses, PeriodMonth, now))
	assertDecimal(t, "0", PeriodTotal(expenses, Period("year"), now))
}

func TestStartOfWeek_SundayBelongsToPreviousMonday(t *testing.T) {
	assert.Equal(t, at("2026-10-12"), startOfWeek(at("2026-10-18")))
	assert.Equal(t, at("2026-10-12"), startOfWeek(at("2026-10-12")))
	assert.Equal(t, at("2026-09-28"), startOfWeek(at("2026-10-01")))
}
