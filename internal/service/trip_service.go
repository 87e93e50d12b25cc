package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/tripledger/internal/api"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

var _ api.TripServiceHandler = (*TripService)(nil)

// TripService implements the Connect TripService.
type TripService struct {
	store        storage.Store
	fallbackUnit string
}

// NewTripService creates a new TripService with the given storage backend.
// fallbackUnit is reserved and cannot be used as a participant or group id;
// empty uses the ledger default.
func NewTripService(store storage.Store, fallbackUnit string) *TripService {
	if fallbackUnit == "" {
		fallbackUnit = ledger.DefaultFallbackUnit
	}
	return &TripService{store: store, fallbackUnit: fallbackUnit}
}

// validateDates checks the date layout and that the trip does not end before it starts.
func validateDates(start, end string) error {
	var startAt, endAt time.Time
	var err error
	if start != "" {
		if startAt, err = time.Parse(models.DateLayout, start); err != nil {
			return fmt.Errorf("start_date must be YYYY-MM-DD: %q", start)
		}
	}
	if end != "" {
		if endAt, err = time.Parse(models.DateLayout, end); err != nil {
			return fmt.Errorf("end_date must be YYYY-MM-DD: %q", end)
		}
	}
	if start != "" && end != "" && endAt.Before(startAt) {
		return fmt.Errorf("end_date %s is before start_date %s", end, start)
	}
	return nil
}

// normalizeBudget returns the budget as a canonical decimal string.
// Empty means no budget.
func normalizeBudget(budget string) (string, error) {
	budget = strings.TrimSpace(strings.ReplaceAll(budget, ",", "."))
	if budget == "" {
		return "", nil
	}
	d, err := decimal.NewFromString(budget)
	if err != nil || d.IsNegative() {
		return "", fmt.Errorf("budget must be a non-negative amount: %q", budget)
	}
	return d.String(), nil
}

// validateParticipants checks a replacement participant list.
// Blank ids are filled in with fresh UUIDs. The legacy alias and the
// fallback unit are reserved, and a group id may not reuse a participant id,
// so every id resolves to exactly one settlement unit.
func validateParticipants(ps []*models.Participant, reserved ...string) (owner *models.Participant, err error) {
	if len(ps) == 0 {
		return nil, fmt.Errorf("at least one participant is required")
	}

	isReserved := func(id string) bool {
		for _, r := range reserved {
			if r != "" && id == r {
				return true
			}
		}
		return false
	}

	seen := make(map[string]bool, len(ps))
	groups := make(map[string]bool)
	for _, p := range ps {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("participant %s needs a name", p.ID)
		}
		if isReserved(p.ID) {
			return nil, fmt.Errorf("participant id %q is reserved", p.ID)
		}
		if isReserved(p.GroupID) {
			return nil, fmt.Errorf("group id %q is reserved", p.GroupID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate participant id %q", p.ID)
		}
		seen[p.ID] = true
		if p.GroupID != "" {
			groups[p.GroupID] = true
		}

		switch p.Role {
		case models.RoleOwner:
			if owner != nil {
				return nil, fmt.Errorf("a trip has exactly one owner")
			}
			owner = p
		case models.RoleMember:
		default:
			return nil, fmt.Errorf("participant %s has unknown role %q", p.ID, p.Role)
		}
	}

	if owner == nil {
		return nil, fmt.Errorf("a trip has exactly one owner")
	}
	for group := range groups {
		if seen[group] {
			return nil, fmt.Errorf("group id %q is also a participant id", group)
		}
	}
	return owner, nil
}

// CreateTrip creates a trip with the caller as its owner participant.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	accountID, err := requireAccount(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateTrip request received", "name", req.Msg.Name, "account_id", accountID)

	if strings.TrimSpace(req.Msg.Name) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name is required"))
	}
	if err := validateDates(req.Msg.StartDate, req.Msg.EndDate); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	budget, err := normalizeBudget(req.Msg.Budget)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	ownerName := req.Msg.OwnerName
	if ownerName == "" {
		ownerName = middleware.GetName(ctx)
	}
	if ownerName == "" {
		ownerName = "Me"
	}
	owner := &models.Participant{
		ID:              uuid.New().String(),
		Name:            ownerName,
		GroupID:         req.Msg.OwnerGroupID,
		Role:            models.RoleOwner,
		LinkedAccountID: accountID,
	}

	trip := &models.Trip{
		Name:             req.Msg.Name,
		Destination:      req.Msg.Destination,
		StartDate:        req.Msg.StartDate,
		EndDate:          req.Msg.EndDate,
		OwnerID:          owner.ID,
		Grouped:          req.Msg.Grouped,
		LegacyOwnerAlias: ledger.DefaultLegacyOwnerAlias,
		Budget:           budget,
		Currency:         strings.ToUpper(req.Msg.Currency),
	}

	participants := []*models.Participant{owner}
	if _, err := validateParticipants(participants, trip.LegacyOwnerAlias, s.fallbackUnit); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateTrip(ctx, trip, participants); err != nil {
		return nil, storeError("CreateTrip", err)
	}

	slog.Info("Trip created", "trip_id", trip.ID, "owner_id", owner.ID)

	return connect.NewResponse(&api.CreateTripResponse{Trip: toAPITrip(trip, participants)}), nil
}

// GetTrip retrieves a trip the caller participates in.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetTripResponse{Trip: toAPITrip(access.trip, access.participants)}), nil
}

// ListTrips returns every trip the caller is linked to.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListTripsResponse], error) {
	accountID, err := requireAccount(ctx)
	if err != nil {
		return nil, err
	}

	trips, err := s.store.ListTripsForAccount(ctx, accountID)
	if err != nil {
		return nil, storeError("ListTrips", err)
	}

	out := make([]*api.Trip, 0, len(trips))
	for _, trip := range trips {
		participants, err := s.store.ListParticipants(ctx, trip.ID)
		if err != nil {
			return nil, storeError("ListParticipants", err)
		}
		out = append(out, toAPITrip(trip, participants))
	}

	slog.Info("ListTrips successful", "account_id", accountID, "count", len(out))

	return connect.NewResponse(&api.ListTripsResponse{Trips: out}), nil
}

// UpdateTrip changes a trip's details. Only the owner may switch grouping,
// since it changes how every balance is reported.
func (s *TripService) UpdateTrip(ctx context.Context, req *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Msg.Name) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name is required"))
	}
	if err := validateDates(req.Msg.StartDate, req.Msg.EndDate); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	budget, err := normalizeBudget(req.Msg.Budget)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	trip := access.trip
	if req.Msg.Grouped != trip.Grouped && !access.isOwner() {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the owner can change grouping"))
	}

	trip.Name = req.Msg.Name
	trip.Destination = req.Msg.Destination
	trip.StartDate = req.Msg.StartDate
	trip.EndDate = req.Msg.EndDate
	trip.Budget = budget
	trip.Currency = strings.ToUpper(req.Msg.Currency)
	trip.Grouped = req.Msg.Grouped

	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		return nil, storeError("UpdateTrip", err)
	}

	slog.Info("Trip updated", "trip_id", trip.ID, "grouped", trip.Grouped)

	return connect.NewResponse(&api.UpdateTripResponse{Trip: toAPITrip(trip, access.participants)}), nil
}

// DeleteTrip removes a trip and its ledger. Owner only.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if !access.isOwner() {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the owner can delete a trip"))
	}

	if err := s.store.DeleteTrip(ctx, access.trip.ID); err != nil {
		return nil, storeError("DeleteTrip", err)
	}

	slog.Info("Trip deleted", "trip_id", access.trip.ID)

	return connect.NewResponse(&api.DeleteTripResponse{}), nil
}

// SetParticipants replaces the participant list. Owner only.
// The caller must stay linked to a participant so they keep access.
func (s *TripService) SetParticipants(ctx context.Context, req *connect.Request[api.SetParticipantsRequest]) (*connect.Response[api.SetParticipantsResponse], error) {
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if !access.isOwner() {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the owner can change participants"))
	}

	participants := make([]*models.Participant, len(req.Msg.Participants))
	for i, p := range req.Msg.Participants {
		participants[i] = &models.Participant{
			ID:              p.ID,
			Name:            p.Name,
			GroupID:         p.GroupID,
			Role:            models.Role(p.Role),
			LinkedAccountID: p.LinkedAccountID,
		}
	}

	owner, err := validateParticipants(participants, access.trip.LegacyOwnerAlias, s.fallbackUnit)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	stillLinked := false
	for _, p := range participants {
		if p.LinkedAccountID == access.caller.LinkedAccountID {
			stillLinked = true
			break
		}
	}
	if !stillLinked {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("you must remain linked to a participant"))
	}

	if err := s.store.SetParticipants(ctx, access.trip.ID, owner.ID, participants); err != nil {
		return nil, storeError("SetParticipants", err)
	}

	trip := access.trip
	if trip.OwnerID != owner.ID {
		slog.Info("Trip owner changed", "trip_id", trip.ID, "from", trip.OwnerID, "to", owner.ID)
		trip.OwnerID = owner.ID
	}

	slog.Info("Participants updated", "trip_id", trip.ID, "count", len(participants))

	return connect.NewResponse(&api.SetParticipantsResponse{Trip: toAPITrip(trip, participants)}), nil
}
