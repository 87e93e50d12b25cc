package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/api"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService: recording
// transactions and reporting balances.
type LedgerService struct {
	store        storage.Store
	fallbackUnit string
}

// NewLedgerService creates a new LedgerService. fallbackUnit names the
// settlement unit for ids that no longer resolve; empty uses the ledger default.
func NewLedgerService(store storage.Store, fallbackUnit string) *LedgerService {
	return &LedgerService{store: store, fallbackUnit: fallbackUnit}
}

func (s *LedgerService) roster(access *tripAccess) *ledger.Roster {
	return ledger.RosterForTrip(access.trip, access.participants, s.fallbackUnit)
}

// checkRecord validates the fields of a record before it is accepted.
// Split allocation is checked separately against the trip roster.
func checkRecord(rec *models.TransactionRecord) error {
	switch rec.Type {
	case models.TransactionExpense, models.TransactionIncome, models.TransactionTransfer:
	default:
		return fmt.Errorf("type must be expense, income or transfer, got %q", rec.Type)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(rec.Amount, ",", ".")))
	if err != nil || !amount.IsPositive() {
		return fmt.Errorf("amount must be a positive number: %q", rec.Amount)
	}
	rec.Amount = amount.String()

	if rec.PaidBy == "" {
		return fmt.Errorf("paid_by is required")
	}

	switch rec.SplitType {
	case models.SplitEqual, models.SplitCustom:
	default:
		return fmt.Errorf("split_type must be equal or custom, got %q", rec.SplitType)
	}

	if rec.Type == models.TransactionTransfer {
		if len(rec.Beneficiaries) != 1 || rec.Beneficiaries[0] == "" {
			return fmt.Errorf("a transfer needs exactly one recipient")
		}
		if rec.Beneficiaries[0] == rec.PaidBy {
			return fmt.Errorf("a transfer cannot be sent to the sender")
		}
		rec.SplitType = models.SplitEqual
		rec.SplitAmounts = nil
		rec.Category = ""
	}
	if rec.Type != models.TransactionExpense {
		rec.Category = ""
	}
	if rec.SplitType == models.SplitEqual {
		rec.SplitAmounts = nil
	}

	if rec.Date != "" {
		if _, err := time.Parse(models.DateLayout, rec.Date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %q", rec.Date)
		}
	}
	return nil
}

// validateSplit runs split validation. Transfers have no split. Custom
// amounts for anyone outside the beneficiaries are rejected before the
// totals are compared, since those amounts would never be charged.
func validateSplit(roster *ledger.Roster, rec *models.TransactionRecord) ledger.ValidationResult {
	if rec.Type == models.TransactionTransfer {
		return ledger.ValidationResult{IsValid: true}
	}
	draft := ledger.DraftFromRecord(*rec)
	if stray := ledger.StrayAllocations(roster, draft); len(stray) > 0 {
		return ledger.ValidationResult{
			Message: fmt.Sprintf("Not a beneficiary: %s", strings.Join(stray, ", ")),
		}
	}
	return ledger.ValidateSplit(roster, draft, nil)
}

// accept runs every check a record must pass before it is stored.
func (s *LedgerService) accept(access *tripAccess, rec *models.TransactionRecord) error {
	if err := checkRecord(rec); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	roster := s.roster(access)
	for _, id := range append([]string{rec.PaidBy}, rec.Beneficiaries...) {
		if !roster.Known(id) {
			return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%q is not a participant of this trip", id))
		}
	}

	if result := validateSplit(roster, rec); !result.IsValid {
		slog.Info("Split rejected", "trip_id", rec.TripID, "message", result.Message)
		return connect.NewError(connect.CodeInvalidArgument, errors.New(result.Message))
	}
	return nil
}

// CreateTransaction records a new expense, income or transfer.
func (s *LedgerService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	rec := fromAPITransaction(req.Msg.Transaction)
	rec.ID = ""

	slog.Info("CreateTransaction request received",
		"trip_id", rec.TripID,
		"type", rec.Type,
		"amount", rec.Amount,
		"beneficiaries_count", len(rec.Beneficiaries),
	)

	access, err := loadTrip(ctx, s.store, rec.TripID)
	if err != nil {
		return nil, err
	}
	if err := s.accept(access, rec); err != nil {
		return nil, err
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateTransaction(ctx, rec); err != nil {
		return nil, storeError("CreateTransaction", err)
	}

	slog.Info("Transaction created", "transaction_id", rec.ID, "trip_id", rec.TripID)

	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: toAPITransaction(rec)}), nil
}

// UpdateTransaction replaces an existing record. The trip cannot change.
func (s *LedgerService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	rec := fromAPITransaction(req.Msg.Transaction)
	if rec.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("transaction id is required"))
	}

	slog.Info("UpdateTransaction request received", "transaction_id", rec.ID)

	if _, err := requireAccount(ctx); err != nil {
		return nil, err
	}
	existing, err := s.store.GetTransaction(ctx, rec.ID)
	if err != nil {
		return nil, storeError("GetTransaction", err)
	}
	access, err := loadTrip(ctx, s.store, existing.TripID)
	if err != nil {
		return nil, err
	}

	rec.TripID = existing.TripID
	rec.CreatedAt = existing.CreatedAt
	if err := s.accept(access, rec); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTransaction(ctx, rec); err != nil {
		return nil, storeError("UpdateTransaction", err)
	}

	slog.Info("Transaction updated", "transaction_id", rec.ID)

	return connect.NewResponse(&api.UpdateTransactionResponse{Transaction: toAPITransaction(rec)}), nil
}

// DeleteTransaction removes a record from its trip's ledger.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	if _, err := requireAccount(ctx); err != nil {
		return nil, err
	}
	existing, err := s.store.GetTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, storeError("GetTransaction", err)
	}
	if _, err := loadTrip(ctx, s.store, existing.TripID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteTransaction(ctx, existing.ID); err != nil {
		return nil, storeError("DeleteTransaction", err)
	}

	slog.Info("Transaction deleted", "transaction_id", existing.ID, "trip_id", existing.TripID)

	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// ListTransactions returns a trip's records in date order.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	if _, err := loadTrip(ctx, s.store, req.Msg.TripID); err != nil {
		return nil, err
	}

	recs, err := s.store.ListTransactions(ctx, req.Msg.TripID)
	if err != nil {
		return nil, storeError("ListTransactions", err)
	}

	out := make([]*api.Transaction, len(recs))
	for i, rec := range recs {
		out[i] = toAPITransaction(rec)
	}

	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

// ValidateSplit checks a draft's allocation without saving it.
// A mismatch is reported in the result, not as an error.
func (s *LedgerService) ValidateSplit(ctx context.Context, req *connect.Request[api.ValidateSplitRequest]) (*connect.Response[api.ValidateSplitResponse], error) {
	rec := fromAPITransaction(req.Msg.Transaction)

	access, err := loadTrip(ctx, s.store, rec.TripID)
	if err != nil {
		return nil, err
	}

	result := validateSplit(s.roster(access), rec)

	slog.Debug("ValidateSplit", "trip_id", rec.TripID, "valid", result.IsValid, "message", result.Message)

	return connect.NewResponse(&api.ValidateSplitResponse{
		IsValid: result.IsValid,
		Message: result.Message,
	}), nil
}

// GetBalances recomputes balances, the settlement plan and the budget
// summary from the trip's stored records.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	access, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	recs, err := s.store.ListTransactions(ctx, req.Msg.TripID)
	if err != nil {
		return nil, storeError("ListTransactions", err)
	}

	values := make([]models.TransactionRecord, len(recs))
	for i, rec := range recs {
		values[i] = *rec
	}
	txs, parseErrs := ledger.ParseRecords(values)

	var skipped []string
	for _, err := range parseErrs {
		slog.Warn("Skipping unreadable transaction", "trip_id", req.Msg.TripID, "error", err)
		skipped = append(skipped, err.Error())
	}

	roster := s.roster(access)
	balances := ledger.ComputeBalances(roster, txs)
	payments := ledger.SettleUp(balances)
	summary := ledger.Summarize(roster, txs)

	resp := &api.GetBalancesResponse{
		Balances:    toAPIBalances(roster, balances),
		Settlements: make([]api.Payment, len(payments)),
		Summary:     toAPISummary(roster, summary, access.trip.Budget),
		Skipped:     skipped,
	}
	for i, p := range payments {
		resp.Settlements[i] = api.Payment{From: p.From, To: p.To, Amount: formatAmount(p.Amount)}
	}

	slog.Info("GetBalances successful",
		"trip_id", req.Msg.TripID,
		"transactions", len(txs),
		"skipped", len(skipped),
		"settlements", len(payments),
	)

	return connect.NewResponse(resp), nil
}

// unitOrder lists roster units first, in participant order, then any
// other unit that picked up a balance (such as the fallback unit).
func unitOrder(roster *ledger.Roster, extra []string) []string {
	order := roster.Units()
	seen := make(map[string]bool, len(order))
	for _, u := range order {
		seen[u] = true
	}
	sort.Strings(extra)
	for _, u := range extra {
		if !seen[u] {
			seen[u] = true
			order = append(order, u)
		}
	}
	return order
}

func toAPIBalances(roster *ledger.Roster, balances ledger.Balances) []api.UnitBalance {
	order := unitOrder(roster, balances.Units())
	out := make([]api.UnitBalance, len(order))
	for i, unit := range order {
		out[i] = api.UnitBalance{Unit: unit, Amount: formatAmount(balances[unit])}
	}
	return out
}

func toAPISummary(roster *ledger.Roster, summary ledger.Summary, budget string) api.Summary {
	out := api.Summary{
		TotalExpenses: formatAmount(summary.TotalExpenses),
		TotalIncome:   formatAmount(summary.TotalIncome),
		ByCategory:    make(map[string]string, len(summary.ByCategory)),
	}
	for category, total := range summary.ByCategory {
		out.ByCategory[category] = formatAmount(total)
	}

	units := make([]string, 0, len(summary.ByUnit))
	for unit := range summary.ByUnit {
		units = append(units, unit)
	}
	for _, unit := range unitOrder(roster, units) {
		totals := summary.ByUnit[unit]
		out.ByUnit = append(out.ByUnit, api.UnitSummary{
			Unit:  unit,
			Paid:  formatAmount(totals.Paid),
			Share: formatAmount(totals.Share),
		})
	}

	if budget != "" {
		b := ledger.ParseAmount(budget)
		out.Budget = formatAmount(b)
		out.Remaining = formatAmount(summary.Remaining(b))
	}
	return out
}
