package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// tripAccess is a loaded trip along with the caller's place in it.
type tripAccess struct {
	trip         *models.Trip
	participants []*models.Participant
	caller       *models.Participant
}

func (a *tripAccess) isOwner() bool {
	return a.caller.Role == models.RoleOwner
}

// requireAccount returns the authenticated account or CodeUnauthenticated.
func requireAccount(ctx context.Context) (string, error) {
	accountID := middleware.GetAccountID(ctx)
	if accountID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return accountID, nil
}

// loadTrip fetches a trip and its participants and checks that the caller
// is linked to one of them.
func loadTrip(ctx context.Context, store storage.Store, tripID string) (*tripAccess, error) {
	accountID, err := requireAccount(ctx)
	if err != nil {
		return nil, err
	}
	if tripID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("trip_id is required"))
	}

	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, storeError("GetTrip", err)
	}
	participants, err := store.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, storeError("ListParticipants", err)
	}

	for _, p := range participants {
		if p.LinkedAccountID == accountID {
			return &tripAccess{trip: trip, participants: participants, caller: p}, nil
		}
	}

	slog.Warn("Trip access denied", "trip_id", tripID, "account_id", accountID)
	return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you are not a participant of this trip"))
}

// storeError maps a storage failure onto a Connect error.
func storeError(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, err)
}
