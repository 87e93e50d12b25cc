package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/models"
)

var (
	ErrUnknownType      = errors.New("unknown transaction type")
	ErrMissingRecipient = errors.New("transfer requires a recipient")
)

// ParseAmount reads a decimal string. Blank, malformed and negative input
// yields zero so a bad historical entry contributes nothing.
// Both "12.50" and "12,50" are accepted.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseRecord converts a stored record into its engine variant.
// Numeric fields never fail; only structural problems return an error.
func ParseRecord(rec models.TransactionRecord) (Transaction, error) {
	amount := ParseAmount(rec.Amount)

	switch rec.Type {
	case models.TransactionExpense:
		return Expense{
			ID:            rec.ID,
			PaidBy:        rec.PaidBy,
			Beneficiaries: rec.Beneficiaries,
			Split:         ParseSplit(rec.SplitType, rec.SplitAmounts),
			Category:      rec.Category,
			Amount:        amount,
		}, nil
	case models.TransactionIncome:
		return Income{
			ID:            rec.ID,
			PaidBy:        rec.PaidBy,
			Beneficiaries: rec.Beneficiaries,
			Split:         ParseSplit(rec.SplitType, rec.SplitAmounts),
			Amount:        amount,
		}, nil
	case models.TransactionTransfer:
		if len(rec.Beneficiaries) == 0 || rec.Beneficiaries[0] == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingRecipient, rec.ID)
		}
		return Transfer{
			ID:     rec.ID,
			From:   rec.PaidBy,
			To:     rec.Beneficiaries[0],
			Amount: amount,
		}, nil
	default:
		return nil, fmt.Errorf("%w %q: %s", ErrUnknownType, rec.Type, rec.ID)
	}
}

// ParseSplit builds the split variant. Anything other than "custom" is equal.
func ParseSplit(splitType models.SplitType, amounts map[string]string) Split {
	if splitType != models.SplitCustom {
		return EqualSplit{}
	}
	parsed := make(map[string]decimal.Decimal, len(amounts))
	for id, v := range amounts {
		parsed[id] = ParseAmount(v)
	}
	return CustomSplit{Amounts: parsed}
}

// ParseRecords converts every record it can. Records with structural
// problems are returned separately so the caller can report them.
func ParseRecords(recs []models.TransactionRecord) ([]Transaction, []error) {
	txs := make([]Transaction, 0, len(recs))
	var errs []error
	for _, rec := range recs {
		tx, err := ParseRecord(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, errs
}

// DraftFromRecord builds a validation draft from a record being edited.
func DraftFromRecord(rec models.TransactionRecord) Draft {
	return Draft{
		Amount:        ParseAmount(rec.Amount),
		Beneficiaries: rec.Beneficiaries,
		Split:         ParseSplit(rec.SplitType, rec.SplitAmounts),
	}
}

// MembersFromParticipants adapts stored participants for NewRoster.
func MembersFromParticipants(ps []*models.Participant) []Member {
	members := make([]Member, len(ps))
	for i, p := range ps {
		members[i] = Member{ID: p.ID, GroupID: p.GroupID}
	}
	return members
}

// RosterForTrip builds the roster for a stored trip.
func RosterForTrip(trip *models.Trip, participants []*models.Participant, fallbackUnit string) *Roster {
	alias := trip.LegacyOwnerAlias
	if alias == "" {
		alias = DefaultLegacyOwnerAlias
	}
	return NewRoster(MembersFromParticipants(participants), RosterOptions{
		Grouped:          trip.Grouped,
		OwnerID:          trip.OwnerID,
		LegacyOwnerAlias: alias,
		FallbackUnit:     fallbackUnit,
	})
}
