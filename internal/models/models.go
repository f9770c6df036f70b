package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TravelType string

type ActivityType string

type ExpenseCategory string

const (
	TravelTypeSolo     TravelType = "solo"
	TravelTypeCouple   TravelType = "couple"
	TravelTypeFamily   TravelType = "family"
	TravelTypeFriends  TravelType = "friends"
	TravelTypeBusiness TravelType = "business"

	ActivityTypeSightseeing ActivityType = "sightseeing"
	ActivityTypeFood        ActivityType = "food"
	ActivityTypeActivity    ActivityType = "activity"
	ActivityTypeRest        ActivityType = "rest"

	ExpenseCategoryAccommodation ExpenseCategory = "accommodation"
	ExpenseCategoryFood          ExpenseCategory = "food"
	ExpenseCategoryTransport     ExpenseCategory = "transport"
	ExpenseCategoryActivities    ExpenseCategory = "activities"
	ExpenseCategoryShopping      ExpenseCategory = "shopping"
	ExpenseCategoryOther         ExpenseCategory = "other"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	IsGuest      bool      `json:"is_guest"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Trip struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Destination string     `json:"destination"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	BudgetCents *int64     `json:"budget_cents,omitempty"`
	TravelType  TravelType `json:"travel_type"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Activity is a single scheduled item within an itinerary day. Time is a
// display string ("09:00 AM") that doubles as the sort key via plain string
// comparison; it is never parsed into a clock value.
type Activity struct {
	Time        string       `json:"time"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location,omitempty"`
	Type        ActivityType `json:"type"`
}

// ItineraryDay is one day of a trip plan. Day numbers are 1-based and
// contiguous; Date equals the trip start date plus (Day-1) days.
type ItineraryDay struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
}

type Expense struct {
	ID          uuid.UUID       `json:"id"`
	TripID      uuid.UUID       `json:"trip_id"`
	AmountCents int64           `json:"amount_cents"`
	Description string          `json:"description"`
	Category    ExpenseCategory `json:"category"`
	SpentOn     time.Time       `json:"spent_on"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Place struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       int      `json:"price_level"`
	Types            []string `json:"types"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}

// IsKnownActivityType сообщает, входит ли тип активности в фиксированный набор.
// Неизвестные значения не отклоняются, а отображаются как общая категория.
func IsKnownActivityType(value ActivityType) bool {
	switch value {
	case ActivityTypeSightseeing, ActivityTypeFood, ActivityTypeActivity, ActivityTypeRest:
		return true
	default:
		return false
	}
}

// ParseTravelType нормализует тип поездки из пользовательского ввода.
func ParseTravelType(value string) (TravelType, bool) {
	switch TravelType(strings.ToLower(strings.TrimSpace(value))) {
	case TravelTypeSolo:
		return TravelTypeSolo, true
	case TravelTypeCouple:
		return TravelTypeCouple, true
	case TravelTypeFamily:
		return TravelTypeFamily, true
	case TravelTypeFriends:
		return TravelTypeFriends, true
	case TravelTypeBusiness:
		return TravelTypeBusiness, true
	default:
		return "", false
	}
}

// ParseExpenseCategory нормализует категорию расхода.
func ParseExpenseCategory(value string) (ExpenseCategory, bool) {
	switch ExpenseCategory(strings.ToLower(strings.TrimSpace(value))) {
	case ExpenseCategoryAccommodation:
		return ExpenseCategoryAccommodation, true
	case ExpenseCategoryFood:
		return ExpenseCategoryFood, true
	case ExpenseCategoryTransport:
		return ExpenseCategoryTransport, true
	case ExpenseCategoryActivities:
		return ExpenseCategoryActivities, true
	case ExpenseCategoryShopping:
		return ExpenseCategoryShopping, true
	case ExpenseCategoryOther:
		return ExpenseCategoryOther, true
	default:
		return "", false
	}
}
