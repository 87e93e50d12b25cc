package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Balances maps a settlement unit to its signed net amount.
// Positive = the unit is owed money, negative = the unit owes money.
type Balances map[string]decimal.Decimal

// Sum returns the total of all balances. Zero for a closed ledger.
func (b Balances) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// Units returns the balance keys sorted by id.
func (b Balances) Units() []string {
	units := make([]string, 0, len(b))
	for u := range b {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

func (b Balances) add(unit string, amount decimal.Decimal) {
	b[unit] = b[unit].Add(amount)
}

// ComputeBalances folds the transaction list into a balance per settlement unit.
//
// Algorithm:
// - every known unit starts at zero
// - expense: payer += amount, each beneficiary unit -= its share
// - income: payer -= amount, each beneficiary unit += its share
// - transfer: sender += amount, receiver -= amount
func ComputeBalances(roster *Roster, txs []Transaction) Balances {
	balances := make(Balances, len(roster.units))
	for _, u := range roster.units {
		balances[u] = decimal.Zero
	}

	for _, tx := range txs {
		switch t := tx.(type) {
		case Expense:
			balances.add(roster.Resolve(t.PaidBy), t.Amount)
			for unit, share := range shares(roster, t.Amount, t.Beneficiaries, t.Split) {
				balances.add(unit, share.Neg())
			}
		case Income:
			balances.add(roster.Resolve(t.PaidBy), t.Amount.Neg())
			for unit, share := range shares(roster, t.Amount, t.Beneficiaries, t.Split) {
				balances.add(unit, share)
			}
		case Transfer:
			balances.add(roster.Resolve(t.From), t.Amount)
			balances.add(roster.Resolve(t.To), t.Amount.Neg())
		}
	}

	return balances
}

// shares returns each beneficiary unit's portion of amount.
func shares(roster *Roster, amount decimal.Decimal, beneficiaries []string, split Split) map[string]decimal.Decimal {
	units := roster.resolveAll(beneficiaries)
	out := make(map[string]decimal.Decimal, len(units))

	switch s := split.(type) {
	case CustomSplit:
		allocated := resolveAmounts(roster, s.Amounts)
		for _, u := range units {
			out[u] = allocated[u]
		}
	default:
		divisor := int64(len(units))
		if divisor == 0 {
			divisor = 1
		}
		each := amount.Div(decimal.NewFromInt(divisor))
		for _, u := range units {
			out[u] = each
		}
	}

	return out
}

// resolveAmounts re-keys custom split amounts by settlement unit.
func resolveAmounts(roster *Roster, amounts map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(amounts))
	for id, v := range amounts {
		u := roster.Resolve(id)
		out[u] = out[u].Add(v)
	}
	return out
}
