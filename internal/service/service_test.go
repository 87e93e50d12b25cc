package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/api"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/storage/sqlite"
)

const (
	accountHeader = "X-Test-Account"
	aliceAccount  = "acct-alice"
	bobAccount    = "acct-bob"

	// testFallbackUnit stands in for a configured FALLBACK_UNIT.
	testFallbackUnit = "former"
)

// testAuthInterceptor sets the account named by the test header in the
// context, defaulting to Alice's account.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			accountID := req.Header().Get(accountHeader)
			if accountID == "" {
				accountID = aliceAccount
			}
			return next(middleware.WithAccount(ctx, accountID, ""), req)
		}
	}
}

type testClients struct {
	trips  *api.TripServiceClient
	ledger *api.LedgerServiceClient
	store  *sqlite.SQLiteStore
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	authInterceptor := connect.WithInterceptors(testAuthInterceptor())
	tripPath, tripHandler := api.NewTripServiceHandler(NewTripService(store, testFallbackUnit), authInterceptor)
	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(NewLedgerService(store, testFallbackUnit), authInterceptor)

	mux := http.NewServeMux()
	mux.Handle(tripPath, tripHandler)
	mux.Handle(ledgerPath, ledgerHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		trips:  api.NewTripServiceClient(http.DefaultClient, server.URL),
		ledger: api.NewLedgerServiceClient(http.DefaultClient, server.URL),
		store:  store,
	}
}

// as builds a request sent on behalf of the given account.
func as[T any](accountID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(accountHeader, accountID)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected code %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

// createTripWithParticipants creates a trip owned by Alice with Bob and
// Carol as members. Bob is linked to bobAccount.
func createTripWithParticipants(t *testing.T, c *testClients, grouped bool) *api.Trip {
	t.Helper()
	ctx := context.Background()

	created, err := c.trips.CreateTrip(ctx, connect.NewRequest(&api.CreateTripRequest{
		Name:      "Lisbon",
		StartDate: "2026-05-01",
		EndDate:   "2026-05-08",
		Budget:    "1000",
		Currency:  "eur",
		Grouped:   grouped,
		OwnerName: "Alice",
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	trip := created.Msg.Trip

	resp, err := c.trips.SetParticipants(ctx, connect.NewRequest(&api.SetParticipantsRequest{
		TripID: trip.ID,
		Participants: []api.Participant{
			{ID: trip.OwnerID, Name: "Alice", GroupID: "smiths", Role: "owner", LinkedAccountID: aliceAccount},
			{ID: "bob", Name: "Bob", GroupID: "smiths", Role: "member", LinkedAccountID: bobAccount},
			{ID: "carol", Name: "Carol", GroupID: "jones", Role: "member"},
		},
	}))
	if err != nil {
		t.Fatalf("SetParticipants failed: %v", err)
	}
	return resp.Msg.Trip
}
