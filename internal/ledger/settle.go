package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Payment is one suggested transfer that settles part of the ledger.
type Payment struct {
	From   string          // Unit that owes
	To     string          // Unit that is owed
	Amount decimal.Decimal
}

type position struct {
	unit   string
	amount decimal.Decimal
}

// SettleUp turns balances into a short list of payments that clears them.
//
// Greedy: the largest debtor pays the largest creditor until one side is
// settled, then moves on. Residues below SplitTolerance are floating noise
// from equal splits and are dropped.
func SettleUp(balances Balances) []Payment {
	var debtors, creditors []position
	for unit, bal := range balances {
		switch {
		case bal.GreaterThanOrEqual(SplitTolerance):
			creditors = append(creditors, position{unit, bal})
		case bal.Neg().GreaterThanOrEqual(SplitTolerance):
			debtors = append(debtors, position{unit, bal.Neg()})
		}
	}
	sortPositions(debtors)
	sortPositions(creditors)

	var payments []Payment
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]

		amount := decimal.Min(d.amount, c.amount)
		if amount.GreaterThanOrEqual(SplitTolerance) {
			payments = append(payments, Payment{From: d.unit, To: c.unit, Amount: amount})
		}

		d.amount = d.amount.Sub(amount)
		c.amount = c.amount.Sub(amount)

		if d.amount.LessThan(SplitTolerance) {
			i++
		}
		if c.amount.LessThan(SplitTolerance) {
			j++
		}
	}

	return payments
}

func sortPositions(ps []position) {
	sort.Slice(ps, func(a, b int) bool {
		if c := ps[a].amount.Cmp(ps[b].amount); c != 0 {
			return c > 0
		}
		return ps[a].unit < ps[b].unit
	})
}
