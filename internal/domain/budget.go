package domain

import "time"

// BudgetState tracks one user's daily item quota and monthly cost budget.
// ItemsToday rolls over lazily: the governor zeroes it on the first
// read/write after a calendar-day boundary, there is no background timer.
type BudgetState struct {
	UserID       string
	ItemsToday   int
	DailyLimit   int
	MonthCost    float64
	MonthlyLimit float64
	PassedCount  int
	FailedCount  int
	LastResetAt  time.Time
	UpdatedAt    time.Time
}
