package core

import "time"

// CategoryAmount is the spend of one expense category within a month.
type CategoryAmount struct {
	Category ExpenseCategory `json:"category"`
	Amount   Money           `json:"amount"`
	Percent  float64         `json:"percent"` // share of the month's total, 0-100
}

// BudgetSummary is the monthly budget view for a specific year+month.
type BudgetSummary struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"` // 1-12
	MonthlyBudget Money            `json:"monthlyBudget"`
	TotalSpent    Money            `json:"totalSpent"`
	Remaining     Money            `json:"remaining"`
	ByCategory    []CategoryAmount `json:"byCategory"`
}

// Collection names one persisted entity collection.
type Collection string

const (
	CollectionHomeProfile   Collection = "home_profile"
	CollectionAppliances    Collection = "appliances"
	CollectionTasks         Collection = "tasks"
	CollectionBudgetItems   Collection = "budget_items"
	CollectionTrustedPros   Collection = "trusted_pros"
	CollectionMonthlyBudget Collection = "monthly_budget"
)

// ChangeOp is the kind of mutation a ChangeEvent reports.
type ChangeOp string

const (
	OpAdded     ChangeOp = "added"
	OpUpdated   ChangeOp = "updated"
	OpDeleted   ChangeOp = "deleted"
	OpCompleted ChangeOp = "completed"
	OpArchived  ChangeOp = "archived"
	OpRestored  ChangeOp = "restored"
)

// ChangeEvent describes one applied store mutation.
type ChangeEvent struct {
	Collection Collection `json:"collection"`
	Op         ChangeOp   `json:"op"`
	ID         string     `json:"id,omitempty"`
	At         time.Time  `json:"at"`
}
