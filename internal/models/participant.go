package models

// Role is a participant's permission level within a trip.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Participant is a traveler on a trip.
type Participant struct {
	// ID is unique within the trip.
	ID string

	// TripID is the trip this participant belongs to.
	TripID string

	// Name is the display name.
	Name string

	// GroupID optionally places the participant in a family group.
	GroupID string

	Role Role

	// LinkedAccountID is the authenticated account acting as this
	// participant. Empty for travelers without an account.
	LinkedAccountID string

	// Position keeps the configured ordering.
	Position int
}
