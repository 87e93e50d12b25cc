package api

// Amounts cross the wire as decimal strings ("12.50") so no precision is
// lost between the client and the ledger.

// Participant is a traveler on a trip.
type Participant struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	GroupID         string `json:"groupId,omitempty"`
	Role            string `json:"role"`
	LinkedAccountID string `json:"linkedAccountId,omitempty"`
}

// Trip is a trip with its configured participants.
type Trip struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Destination      string        `json:"destination,omitempty"`
	StartDate        string        `json:"startDate,omitempty"`
	EndDate          string        `json:"endDate,omitempty"`
	OwnerID          string        `json:"ownerId"`
	Grouped          bool          `json:"grouped"`
	LegacyOwnerAlias string        `json:"legacyOwnerAlias,omitempty"`
	Budget           string        `json:"budget,omitempty"`
	Currency         string        `json:"currency,omitempty"`
	Participants     []Participant `json:"participants"`
	CreatedAt        int64         `json:"createdAt"`
	UpdatedAt        int64         `json:"updatedAt"`
}

type CreateTripRequest struct {
	Name        string `json:"name"`
	Destination string `json:"destination,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Budget      string `json:"budget,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Grouped     bool   `json:"grouped"`

	// OwnerName and OwnerGroupID describe the caller's own participant entry.
	OwnerName    string `json:"ownerName"`
	OwnerGroupID string `json:"ownerGroupId,omitempty"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"tripId"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type ListTripsResponse struct {
	Trips []*Trip `json:"trips"`
}

type UpdateTripRequest struct {
	TripID      string `json:"tripId"`
	Name        string `json:"name"`
	Destination string `json:"destination,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Budget      string `json:"budget,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Grouped     bool   `json:"grouped"`
}

type UpdateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type DeleteTripRequest struct {
	TripID string `json:"tripId"`
}

type DeleteTripResponse struct{}

type SetParticipantsRequest struct {
	TripID       string        `json:"tripId"`
	Participants []Participant `json:"participants"`
}

type SetParticipantsResponse struct {
	Trip *Trip `json:"trip"`
}

// Transaction is an expense, income or transfer.
type Transaction struct {
	ID            string            `json:"id,omitempty"`
	TripID        string            `json:"tripId"`
	Type          string            `json:"type"`
	Description   string            `json:"description,omitempty"`
	Amount        string            `json:"amount"`
	PaidBy        string            `json:"paidBy"`
	Beneficiaries []string          `json:"beneficiaries"`
	SplitType     string            `json:"splitType"`
	SplitAmounts  map[string]string `json:"splitAmounts,omitempty"`
	Category      string            `json:"category,omitempty"`
	Date          string            `json:"date,omitempty"`
	CreatedAt     int64             `json:"createdAt,omitempty"`
	UpdatedAt     int64             `json:"updatedAt,omitempty"`
}

type CreateTransactionRequest struct {
	Transaction Transaction `json:"transaction"`
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type UpdateTransactionRequest struct {
	Transaction Transaction `json:"transaction"`
}

type UpdateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

type DeleteTransactionResponse struct{}

type ListTransactionsRequest struct {
	TripID string `json:"tripId"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type ValidateSplitRequest struct {
	Transaction Transaction `json:"transaction"`
}

type ValidateSplitResponse struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

type GetBalancesRequest struct {
	TripID string `json:"tripId"`
}

// UnitBalance is a settlement unit's net position.
// Positive means the unit gets money back, negative means it owes.
type UnitBalance struct {
	Unit   string `json:"unit"`
	Amount string `json:"amount"`
}

// Payment is a suggested transfer that settles debts.
type Payment struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type UnitSummary struct {
	Unit  string `json:"unit"`
	Paid  string `json:"paid"`
	Share string `json:"share"`
}

type Summary struct {
	TotalExpenses string            `json:"totalExpenses"`
	TotalIncome   string            `json:"totalIncome"`
	Budget        string            `json:"budget,omitempty"`
	Remaining     string            `json:"remaining,omitempty"`
	ByCategory    map[string]string `json:"byCategory"`
	ByUnit        []UnitSummary     `json:"byUnit"`
}

type GetBalancesResponse struct {
	Balances    []UnitBalance `json:"balances"`
	Settlements []Payment     `json:"settlements"`
	Summary     Summary       `json:"summary"`

	// Skipped lists records that could not be read and were left out.
	Skipped []string `json:"skipped,omitempty"`
}

// Getters let interceptors read routing ids without knowing the message type.

func (r *GetTripRequest) GetTripID() string         { return r.TripID }
func (r *UpdateTripRequest) GetTripID() string      { return r.TripID }
func (r *DeleteTripRequest) GetTripID() string      { return r.TripID }
func (r *SetParticipantsRequest) GetTripID() string { return r.TripID }

func (r *CreateTransactionRequest) GetTripID() string { return r.Transaction.TripID }
func (r *UpdateTransactionRequest) GetTripID() string { return r.Transaction.TripID }
func (r *ListTransactionsRequest) GetTripID() string  { return r.TripID }
func (r *ValidateSplitRequest) GetTripID() string     { return r.Transaction.TripID }
func (r *GetBalancesRequest) GetTripID() string       { return r.TripID }

func (r *UpdateTransactionRequest) GetTransactionID() string { return r.Transaction.ID }
func (r *DeleteTransactionRequest) GetTransactionID() string { return r.TransactionID }
