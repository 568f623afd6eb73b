package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
	MaxRating            = 5.0
)

type (
	// HomeProfile describes the household. There is exactly one per installation.
	HomeProfile struct {
		Nickname     string  `json:"nickname,omitempty"`
		Address      string  `json:"address,omitempty"`
		YearBuilt    int     `json:"yearBuilt,omitempty"`
		SquareFeet   int     `json:"squareFeet,omitempty"`
		LotSizeSqFt  int     `json:"lotSizeSqFt,omitempty"`
		Bedrooms     int     `json:"bedrooms,omitempty"`
		Bathrooms    float64 `json:"bathrooms,omitempty"`
		Stories      int     `json:"stories,omitempty"`
		PropertyType string  `json:"propertyType,omitempty"`
		HeatingType  string  `json:"heatingType,omitempty"`
		CoolingType  string  `json:"coolingType,omitempty"`
		RoofType     string  `json:"roofType,omitempty"`
		PurchaseDate Date    `json:"purchaseDate"`
	}

	Appliance struct {
		ID             string            `json:"id"`
		Name           string            `json:"name"`
		Category       ApplianceCategory `json:"category"`
		Brand          string            `json:"brand,omitempty"`
		Model          string            `json:"model,omitempty"`
		SerialNumber   string            `json:"serialNumber,omitempty"`
		Location       string            `json:"location,omitempty"`
		PurchaseDate   Date              `json:"purchaseDate"`
		WarrantyExpiry Date              `json:"warrantyExpiry"`
		ManualURL      string            `json:"manualUrl,omitempty"`
		Notes          string            `json:"notes,omitempty"`
	}

	MaintenanceTask struct {
		ID                string     `json:"id"`
		Title             string     `json:"title"`
		Description       string     `json:"description,omitempty"`
		DueDate           Date       `json:"dueDate"`
		Priority          Priority   `json:"priority"`
		Status            TaskStatus `json:"status"`
		ApplianceID       string     `json:"applianceId,omitempty"`
		TrustedProID      string     `json:"trustedProId,omitempty"`
		EstimatedCost     *Money     `json:"estimatedCost,omitempty"`
		Recurring         bool       `json:"recurring"`
		RecurringInterval int        `json:"recurringInterval,omitempty"` // days
		CalendarEventID   string     `json:"calendarEventId,omitempty"`
		ReminderEventID   string     `json:"reminderEventId,omitempty"`
		Notes             []string   `json:"notes,omitempty"`
		ProductLink       string     `json:"productLink,omitempty"`
		CompletedAt       *time.Time `json:"completedAt,omitempty"`
	}

	// ProviderSnapshot is the provider as it was when an expense was logged.
	// It is not updated when the matching TrustedPro changes.
	ProviderSnapshot struct {
		Name      string `json:"name"`
		Specialty string `json:"specialty,omitempty"`
		Phone     string `json:"phone,omitempty"`
		Email     string `json:"email,omitempty"`
		Website   string `json:"website,omitempty"`
	}

	BudgetItem struct {
		ID            string            `json:"id"`
		Amount        Money             `json:"amount"`
		Description   string            `json:"description"`
		Category      ExpenseCategory   `json:"category"`
		Date          Date              `json:"date"`
		ApplianceID   string            `json:"applianceId,omitempty"`
		Provider      *ProviderSnapshot `json:"provider,omitempty"`
		ReceiptImages []string          `json:"receiptImages,omitempty"`
		PaymentMethod PaymentMethod     `json:"paymentMethod,omitempty"`
		InvoiceNumber string            `json:"invoiceNumber,omitempty"`
		Notes         string            `json:"notes,omitempty"`
	}

	Rating struct {
		Source      RatingSource `json:"source"`
		Rating      float64      `json:"rating"`
		ReviewCount *int         `json:"reviewCount,omitempty"`
		URL         string       `json:"url,omitempty"`
	}

	PrivateNote struct {
		ID        string    `json:"id"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"createdAt"`
	}

	TrustedPro struct {
		ID                 string        `json:"id"`
		Name               string        `json:"name"`
		Specialty          string        `json:"specialty,omitempty"`
		Phone              string        `json:"phone,omitempty"`
		Email              string        `json:"email,omitempty"`
		Website            string        `json:"website,omitempty"`
		Address            string        `json:"address,omitempty"`
		LicenseNumber      string        `json:"licenseNumber,omitempty"`
		Licensed           bool          `json:"licensed,omitempty"`
		Insured            bool          `json:"insured,omitempty"`
		Ratings            []Rating      `json:"ratings,omitempty"`
		ExpenseIDs         []string      `json:"expenseIds,omitempty"`
		LinkedApplianceIDs []string      `json:"linkedApplianceIds,omitempty"`
		PrivateNotes       []PrivateNote `json:"privateNotes,omitempty"`
		ServiceCategories  []string      `json:"serviceCategories,omitempty"`
		ServiceRadiusMiles int           `json:"serviceRadiusMiles,omitempty"`
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyDescription = errors.New("empty description")
	ErrNameTooLong      = fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidInterval  = errors.New("recurring interval must be a positive number of days")
	ErrInvalidRating    = fmt.Errorf("rating must be between 0 and %.0f", MaxRating)
	ErrInvalidSource    = errors.New("invalid rating source")
	ErrDuplicateSource  = errors.New("duplicate rating source")
	ErrInvalidPayment   = errors.New("invalid payment method")
	ErrNegativeRadius   = errors.New("service radius cannot be negative")
)

// NewID returns a fresh collision-resistant identifier.
func NewID() string {
	return uuid.NewString()
}

func validateName(name string, empty error) error {
	if strings.TrimSpace(name) == "" {
		return empty
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func (a Appliance) Validate() error {
	if err := validateName(a.Name, ErrEmptyName); err != nil {
		return err
	}
	if !a.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !a.PurchaseDate.IsEmpty() && !a.WarrantyExpiry.IsEmpty() && a.WarrantyExpiry.Before(a.PurchaseDate) {
		return errors.New("warranty expiry must not precede purchase date")
	}
	return nil
}

func (t MaintenanceTask) Validate() error {
	if err := validateName(t.Title, ErrEmptyTitle); err != nil {
		return err
	}
	if len(t.Description) > MaxDescriptionLength {
		return fmt.Errorf("description too long (max %d characters)", MaxDescriptionLength)
	}
	if err := t.DueDate.Validate(); err != nil {
		return fmt.Errorf("invalid due date: %w", err)
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if t.Status != "" && !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if t.Recurring && t.RecurringInterval <= 0 {
		return ErrInvalidInterval
	}
	if t.EstimatedCost != nil {
		if err := t.EstimatedCost.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasValidRecurrence reports whether completing the task spawns a successor.
func (t MaintenanceTask) HasValidRecurrence() bool {
	return t.Recurring && t.RecurringInterval > 0
}

// NormalizeRecurrence drops the interval of a non-recurring task.
func (t *MaintenanceTask) NormalizeRecurrence() {
	if !t.Recurring {
		t.RecurringInterval = 0
	}
}

// Clone returns a deep copy.
func (t MaintenanceTask) Clone() MaintenanceTask {
	c := t
	c.Notes = slices.Clone(t.Notes)
	if t.EstimatedCost != nil {
		cost := *t.EstimatedCost
		c.EstimatedCost = &cost
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

func (b BudgetItem) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.Description) == "" {
		return ErrEmptyDescription
	}
	if len(b.Description) > MaxNameLength {
		return fmt.Errorf("description too long (max %d characters)", MaxNameLength)
	}
	if !b.Category.IsValid() {
		return ErrInvalidCategory
	}
	if err := b.Date.Validate(); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	if b.PaymentMethod != "" && !b.PaymentMethod.IsValid() {
		return ErrInvalidPayment
	}
	if b.Provider != nil && strings.TrimSpace(b.Provider.Name) == "" {
		return fmt.Errorf("provider: %w", ErrEmptyName)
	}
	return nil
}

// Clone returns a deep copy.
func (b BudgetItem) Clone() BudgetItem {
	c := b
	c.ReceiptImages = slices.Clone(b.ReceiptImages)
	if b.Provider != nil {
		p := *b.Provider
		c.Provider = &p
	}
	return c
}

func (r Rating) Validate() error {
	if !r.Source.IsValid() {
		return ErrInvalidSource
	}
	if r.Rating < 0 || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	if r.ReviewCount != nil && *r.ReviewCount < 0 {
		return errors.New("review count cannot be negative")
	}
	return nil
}

// ValidateRatings checks each rating and that no source appears twice.
func ValidateRatings(ratings []Rating) error {
	seen := make(map[RatingSource]struct{}, len(ratings))
	for _, r := range ratings {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.Source]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, r.Source)
		}
		seen[r.Source] = struct{}{}
	}
	return nil
}

func (p TrustedPro) Validate() error {
	if err := validateName(p.Name, ErrEmptyName); err != nil {
		return err
	}
	if p.ServiceRadiusMiles < 0 {
		return ErrNegativeRadius
	}
	return ValidateRatings(p.Ratings)
}

// AverageRating returns the arithmetic mean of the pro's ratings.
// ok is false when there are no ratings; an unrated pro is not a zero-star pro.
func (p TrustedPro) AverageRating() (avg float64, ok bool) {
	if len(p.Ratings) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range p.Ratings {
		sum += r.Rating
	}
	return sum / float64(len(p.Ratings)), true
}

// HasLinkedAppliance reports whether applianceID is in the pro's links.
func (p TrustedPro) HasLinkedAppliance(applianceID string) bool {
	return slices.Contains(p.LinkedApplianceIDs, applianceID)
}

// MatchesProvider reports whether a logged provider snapshot names this pro.
func (p TrustedPro) MatchesProvider(snap *ProviderSnapshot) bool {
	if snap == nil {
		return false
	}
	name := strings.TrimSpace(snap.Name)
	return name != "" && strings.EqualFold(strings.TrimSpace(p.Name), name)
}

// Snapshot captures the pro's contact fields for embedding in an expense.
func (p TrustedPro) Snapshot() *ProviderSnapshot {
	return &ProviderSnapshot{
		Name:      p.Name,
		Specialty: p.Specialty,
		Phone:     p.Phone,
		Email:     p.Email,
		Website:   p.Website,
	}
}

// Clone returns a deep copy.
func (p TrustedPro) Clone() TrustedPro {
	c := p
	c.Ratings = make([]Rating, len(p.Ratings))
	for i, r := range p.Ratings {
		c.Ratings[i] = r
		if r.ReviewCount != nil {
			n := *r.ReviewCount
			c.Ratings[i].ReviewCount = &n
		}
	}
	if p.Ratings == nil {
		c.Ratings = nil
	}
	c.ExpenseIDs = slices.Clone(p.ExpenseIDs)
	c.LinkedApplianceIDs = slices.Clone(p.LinkedApplianceIDs)
	c.PrivateNotes = slices.Clone(p.PrivateNotes)
	c.ServiceCategories = slices.Clone(p.ServiceCategories)
	return c
}
