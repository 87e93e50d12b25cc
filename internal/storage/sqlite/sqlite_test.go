package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tripledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := &models.Trip{
		Name:      "Lisbon",
		StartDate: "2026-05-01",
		EndDate:   "2026-05-08",
		OwnerID:   "alice",
		Budget:    "1500",
		Currency:  "EUR",
	}

	t.Run("CreateTrip generates ID and timestamps", func(t *testing.T) {
		if err := store.CreateTrip(ctx, trip, nil); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		if trip.ID == "" {
			t.Error("Expected trip ID to be generated")
		}
		if trip.CreatedAt == 0 || trip.UpdatedAt == 0 {
			t.Error("Expected timestamps to be set")
		}
	})

	t.Run("GetTrip round-trips fields", func(t *testing.T) {
		got, err := store.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if got.Name != "Lisbon" || got.Budget != "1500" || got.EndDate != "2026-05-08" {
			t.Errorf("GetTrip = %+v", got)
		}
		if got.Grouped {
			t.Error("Expected Grouped to be false")
		}
	})

	t.Run("UpdateTrip persists grouping", func(t *testing.T) {
		trip.Grouped = true
		trip.Destination = "Portugal"
		if err := store.UpdateTrip(ctx, trip); err != nil {
			t.Fatalf("UpdateTrip failed: %v", err)
		}
		got, err := store.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if !got.Grouped || got.Destination != "Portugal" {
			t.Errorf("update not persisted: %+v", got)
		}
	})

	t.Run("SetParticipants keeps order", func(t *testing.T) {
		err := store.SetParticipants(ctx, trip.ID, "alice", []*models.Participant{
			{ID: "alice", Name: "Alice", Role: models.RoleOwner, LinkedAccountID: "acct-alice", GroupID: "smiths"},
			{ID: "bob", Name: "Bob", Role: models.RoleMember, GroupID: "smiths"},
			{ID: "carol", Name: "Carol", Role: models.RoleMember, LinkedAccountID: "acct-carol"},
		})
		if err != nil {
			t.Fatalf("SetParticipants failed: %v", err)
		}

		got, err := store.ListParticipants(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 participants, got %d", len(got))
		}
		for i, want := range []string{"alice", "bob", "carol"} {
			if got[i].ID != want {
				t.Errorf("participant %d: expected %s, got %s", i, want, got[i].ID)
			}
		}
		if got[0].Role != models.RoleOwner || got[0].GroupID != "smiths" {
			t.Errorf("owner fields not persisted: %+v", got[0])
		}
	})

	t.Run("ListTripsForAccount", func(t *testing.T) {
		trips, err := store.ListTripsForAccount(ctx, "acct-carol")
		if err != nil {
			t.Fatalf("ListTripsForAccount failed: %v", err)
		}
		if len(trips) != 1 || trips[0].ID != trip.ID {
			t.Errorf("expected trip %s, got %+v", trip.ID, trips)
		}

		trips, err = store.ListTripsForAccount(ctx, "acct-nobody")
		if err != nil {
			t.Fatalf("ListTripsForAccount failed: %v", err)
		}
		if len(trips) != 0 {
			t.Errorf("expected no trips, got %d", len(trips))
		}
	})

	var expense *models.TransactionRecord

	t.Run("CreateTransaction stores allocations", func(t *testing.T) {
		expense = &models.TransactionRecord{
			TripID:        trip.ID,
			Type:          models.TransactionExpense,
			Description:   "Dinner",
			Amount:        "90",
			PaidBy:        "alice",
			Beneficiaries: []string{"carol", "alice", "bob"},
			SplitType:     models.SplitCustom,
			SplitAmounts:  map[string]string{"alice": "30", "bob": "20", "carol": "40"},
			Category:      "food",
			Date:          "2026-05-02",
		}
		if err := store.CreateTransaction(ctx, expense); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		got, err := store.GetTransaction(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if len(got.Beneficiaries) != 3 || got.Beneficiaries[0] != "carol" {
			t.Errorf("beneficiaries out of order: %v", got.Beneficiaries)
		}
		if got.SplitAmounts["carol"] != "40" {
			t.Errorf("split amounts not persisted: %v", got.SplitAmounts)
		}
		if got.Type != models.TransactionExpense || got.SplitType != models.SplitCustom {
			t.Errorf("type fields not persisted: %+v", got)
		}
	})

	t.Run("UpdateTransaction replaces allocations", func(t *testing.T) {
		expense.SplitType = models.SplitEqual
		expense.SplitAmounts = nil
		expense.Beneficiaries = []string{"bob"}
		if err := store.UpdateTransaction(ctx, expense); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}

		got, err := store.GetTransaction(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if len(got.Beneficiaries) != 1 || len(got.SplitAmounts) != 0 {
			t.Errorf("allocations not replaced: %+v", got)
		}
	})

	t.Run("ListTransactions orders by date", func(t *testing.T) {
		transfer := &models.TransactionRecord{
			TripID:        trip.ID,
			Type:          models.TransactionTransfer,
			Amount:        "25",
			PaidBy:        "bob",
			Beneficiaries: []string{"alice"},
			SplitType:     models.SplitEqual,
			Date:          "2026-05-01",
		}
		if err := store.CreateTransaction(ctx, transfer); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		recs, err := store.ListTransactions(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("expected 2 records, got %d", len(recs))
		}
		if recs[0].ID != transfer.ID {
			t.Errorf("expected transfer first, got %s", recs[0].ID)
		}
		if len(recs[0].Beneficiaries) != 1 || recs[0].Beneficiaries[0] != "alice" {
			t.Errorf("transfer recipient not loaded: %v", recs[0].Beneficiaries)
		}
	})

	t.Run("DeleteTransaction", func(t *testing.T) {
		if err := store.DeleteTransaction(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		_, err := store.GetTransaction(ctx, expense.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		err = store.DeleteTransaction(ctx, expense.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("DeleteTrip cascades", func(t *testing.T) {
		if err := store.DeleteTrip(ctx, trip.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		recs, err := store.ListTransactions(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("expected transactions to be deleted, got %d", len(recs))
		}
		participants, err := store.ListParticipants(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(participants) != 0 {
			t.Errorf("expected participants to be deleted, got %d", len(participants))
		}
	})
}

func TestGetTripNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetTrip(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetParticipantsUnknownTrip(t *testing.T) {
	store := newTestStore(t)

	err := store.SetParticipants(context.Background(), "missing", "a", []*models.Participant{{ID: "a", Role: models.RoleOwner}})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "again.db")

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("first New failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("second New failed: %v", err)
	}
	second.Close()
}

func TestCreateTripIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := &models.Trip{Name: "Rome", OwnerID: "a"}
	// The duplicate id violates the participants primary key.
	err := store.CreateTrip(ctx, trip, []*models.Participant{
		{ID: "a", Name: "A", Role: models.RoleOwner},
		{ID: "a", Name: "A again", Role: models.RoleMember},
	})
	if err == nil {
		t.Fatal("expected CreateTrip to fail on duplicate participant")
	}

	if _, err := store.GetTrip(ctx, trip.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected trip to be rolled back, got %v", err)
	}
}

func TestSetParticipantsIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := &models.Trip{Name: "Rome", OwnerID: "a"}
	if err := store.CreateTrip(ctx, trip, []*models.Participant{
		{ID: "a", Name: "A", Role: models.RoleOwner},
		{ID: "b", Name: "B", Role: models.RoleMember},
	}); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	err := store.SetParticipants(ctx, trip.ID, "c", []*models.Participant{
		{ID: "c", Name: "C", Role: models.RoleOwner},
		{ID: "c", Name: "C again", Role: models.RoleMember},
	})
	if err == nil {
		t.Fatal("expected SetParticipants to fail on duplicate participant")
	}

	got, err := store.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if got.OwnerID != "a" {
		t.Errorf("owner change should be rolled back, got %s", got.OwnerID)
	}
	participants, err := store.ListParticipants(ctx, trip.ID)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(participants) != 2 || participants[0].ID != "a" {
		t.Errorf("participants should be unchanged, got %+v", participants)
	}

	if err := store.SetParticipants(ctx, trip.ID, "b", []*models.Participant{
		{ID: "a", Name: "A", Role: models.RoleMember},
		{ID: "b", Name: "B", Role: models.RoleOwner},
	}); err != nil {
		t.Fatalf("SetParticipants failed: %v", err)
	}
	got, err = store.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if got.OwnerID != "b" {
		t.Errorf("expected owner b, got %s", got.OwnerID)
	}
}
