package models

// DateLayout is the format of trip and transaction display dates.
const DateLayout = "2006-01-02"

// Trip is a planned journey shared by a set of participants.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name (e.g., "Lisbon 2026").
	Name string

	// Destination is free text shown on the itinerary screen.
	Destination string

	// StartDate and EndDate use DateLayout. Either may be empty while planning.
	StartDate string
	EndDate   string

	// OwnerID is the participant who created the trip.
	OwnerID string

	// Grouped tracks balances per family group instead of per traveler.
	Grouped bool

	// LegacyOwnerAlias is the sentinel id older records use for the owner.
	LegacyOwnerAlias string

	// Budget is the planned spend as a decimal string. Empty means no budget.
	Budget string

	// Currency is an ISO 4217 code used for display only.
	Currency string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}
