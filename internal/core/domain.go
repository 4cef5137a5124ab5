package core

import (
	"strings"
	"time"
)

// Category is the closed set of ledger entry categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryBills         Category = "Bills"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryOther         Category = "Other"
)

// Categories lists every valid entry category, in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryBills,
	CategoryEntertainment,
	CategoryShopping,
	CategoryOther,
}

// Valid reports whether c is one of the known entry categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type (
	Money struct {
		Cents int64
	}

	// Entry is a single recorded expense owned by one principal.
	// The id is assigned by the store and the owner never changes after creation.
	Entry struct {
		ID          string
		OwnerID     string
		Description string
		Amount      Money
		Category    Category
		Date        time.Time
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// EntryUpdate carries the mutable entry fields; nil means "leave unchanged".
	EntryUpdate struct {
		Description *string
		Amount      *Money
		Category    *Category
		Date        *time.Time
	}

	// Budget is a spending limit for one category in one calendar month.
	// At most one row exists per (OwnerID, Category, Month); the store's
	// upsert enforces that. Category is deliberately free text here: budgets
	// may outlive changes to the entry category set.
	Budget struct {
		ID        string
		OwnerID   string
		Category  string
		Month     string // "YYYY-MM"
		Limit     Money  // zero means "no budget set" for display purposes
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// User is an authentication principal. Consumed only by the auth
	// collaborator; the ledger core sees bare owner ids.
	User struct {
		ID           string
		Name         string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// Validate checks only the fields an update actually sets.
func (u EntryUpdate) Validate() error {
	if u.Description != nil {
		if strings.TrimSpace(*u.Description) == "" {
			return ErrEmptyDescription
		}
		if len(*u.Description) > 200 {
			return ErrDescriptionTooLong
		}
	}
	if u.Amount != nil {
		if err := u.Amount.Validate(); err != nil {
			return err
		}
	}
	if u.Category != nil && !u.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// Empty reports whether the update would change nothing.
func (u EntryUpdate) Empty() bool {
	return u.Description == nil && u.Amount == nil && u.Category == nil && u.Date == nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidMonthKey(b.Month) {
		return ErrInvalidMonth
	}
	if b.Limit.Cents < 0 {
		return ErrNegativeLimit
	}
	return nil
}

// MonthKey formats t as the "YYYY-MM" token budgets are keyed by.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ValidMonthKey reports whether s is a well-formed "YYYY-MM" token.
func ValidMonthKey(s string) bool {
	if len(s) != 7 {
		return false
	}
	_, err := time.Parse("2006-01", s)
	return err == nil
}
