package core

import (
	"fmt"
	"strings"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	StatusUpcoming  TaskStatus = "upcoming"
	StatusCompleted TaskStatus = "completed"
	StatusArchived  TaskStatus = "archived"
)

const (
	ApplianceHVAC          ApplianceCategory = "hvac"
	ApplianceKitchen       ApplianceCategory = "kitchen"
	ApplianceLaundry       ApplianceCategory = "laundry"
	AppliancePlumbing      ApplianceCategory = "plumbing"
	ApplianceElectrical    ApplianceCategory = "electrical"
	ApplianceWaterHeater   ApplianceCategory = "water-heater"
	ApplianceOutdoor       ApplianceCategory = "outdoor"
	ApplianceSafety        ApplianceCategory = "safety"
	ApplianceEntertainment ApplianceCategory = "entertainment"
	ApplianceOther         ApplianceCategory = "other"
)

const (
	ExpenseRepair      ExpenseCategory = "repair"
	ExpenseMaintenance ExpenseCategory = "maintenance"
	ExpenseImprovement ExpenseCategory = "improvement"
	ExpenseAppliance   ExpenseCategory = "appliance"
	ExpenseUtilities   ExpenseCategory = "utilities"
	ExpenseInsurance   ExpenseCategory = "insurance"
	ExpenseCleaning    ExpenseCategory = "cleaning"
	ExpenseLandscaping ExpenseCategory = "landscaping"
	ExpenseOther       ExpenseCategory = "other"
)

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCredit   PaymentMethod = "credit"
	PaymentDebit    PaymentMethod = "debit"
	PaymentCheck    PaymentMethod = "check"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentOther    PaymentMethod = "other"
)

const (
	SourceGoogle      RatingSource = "google"
	SourceYelp        RatingSource = "yelp"
	SourceAngi        RatingSource = "angi"
	SourceBBB         RatingSource = "bbb"
	SourceThumbtack   RatingSource = "thumbtack"
	SourceNextdoor    RatingSource = "nextdoor"
	SourceFacebook    RatingSource = "facebook"
	SourceHomeAdvisor RatingSource = "homeadvisor"
	SourcePersonal    RatingSource = "personal"
	SourceOther       RatingSource = "other"
)

type (
	Priority          string
	TaskStatus        string
	ApplianceCategory string
	ExpenseCategory   string
	PaymentMethod     string
	RatingSource      string
)

var (
	priorities          = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
	taskStatuses        = []TaskStatus{StatusUpcoming, StatusCompleted, StatusArchived}
	applianceCategories = []ApplianceCategory{
		ApplianceHVAC, ApplianceKitchen, ApplianceLaundry, AppliancePlumbing, ApplianceElectrical,
		ApplianceWaterHeater, ApplianceOutdoor, ApplianceSafety, ApplianceEntertainment, ApplianceOther,
	}
	expenseCategories = []ExpenseCategory{
		ExpenseRepair, ExpenseMaintenance, ExpenseImprovement, ExpenseAppliance, ExpenseUtilities,
		ExpenseInsurance, ExpenseCleaning, ExpenseLandscaping, ExpenseOther,
	}
	paymentMethods = []PaymentMethod{
		PaymentCash, PaymentCredit, PaymentDebit, PaymentCheck, PaymentTransfer, PaymentOther,
	}
	ratingSources = []RatingSource{
		SourceGoogle, SourceYelp, SourceAngi, SourceBBB, SourceThumbtack, SourceNextdoor,
		SourceFacebook, SourceHomeAdvisor, SourcePersonal, SourceOther,
	}
)

// parseEnum matches s case-insensitively against the allowed values.
func parseEnum[T ~string](kind, s string, allowed []T) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if a == v {
			return a, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q: must be one of %v", kind, s, allowed)
}

func isOneOf[T comparable](v T, allowed []T) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

func ParsePriority(s string) (Priority, error) { return parseEnum("priority", s, priorities) }

func ParseTaskStatus(s string) (TaskStatus, error) { return parseEnum("status", s, taskStatuses) }

func ParseApplianceCategory(s string) (ApplianceCategory, error) {
	return parseEnum("appliance category", s, applianceCategories)
}

func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	return parseEnum("expense category", s, expenseCategories)
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	return parseEnum("payment method", s, paymentMethods)
}

func ParseRatingSource(s string) (RatingSource, error) {
	return parseEnum("rating source", s, ratingSources)
}

func (p Priority) IsValid() bool          { return isOneOf(p, priorities) }
func (s TaskStatus) IsValid() bool        { return isOneOf(s, taskStatuses) }
func (c ApplianceCategory) IsValid() bool { return isOneOf(c, applianceCategories) }
func (c ExpenseCategory) IsValid() bool   { return isOneOf(c, expenseCategories) }
func (m PaymentMethod) IsValid() bool     { return isOneOf(m, paymentMethods) }
func (s RatingSource) IsValid() bool      { return isOneOf(s, ratingSources) }

// ExpenseCategories returns every expense category in display order.
func ExpenseCategories() []ExpenseCategory {
	return append([]ExpenseCategory(nil), expenseCategories...)
}
