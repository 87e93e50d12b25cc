package ledger

import "github.com/shopspring/decimal"

// UnitTotals is what one settlement unit paid and consumed.
type UnitTotals struct {
	Paid  decimal.Decimal // Expenses paid out of pocket
	Share decimal.Decimal // Portion of expenses attributed to the unit
}

// Summary aggregates a trip's transactions for the budget view.
type Summary struct {
	TotalExpenses decimal.Decimal
	TotalIncome   decimal.Decimal
	ByCategory    map[string]decimal.Decimal
	ByUnit        map[string]UnitTotals
}

// UncategorizedLabel is the category key for expenses without a tag.
const UncategorizedLabel = "uncategorized"

// Summarize totals expenses and income. Transfers move money between
// travelers and do not count as spending.
func Summarize(roster *Roster, txs []Transaction) Summary {
	s := Summary{
		TotalExpenses: decimal.Zero,
		TotalIncome:   decimal.Zero,
		ByCategory:    make(map[string]decimal.Decimal),
		ByUnit:        make(map[string]UnitTotals, len(roster.units)),
	}
	for _, u := range roster.units {
		s.ByUnit[u] = UnitTotals{Paid: decimal.Zero, Share: decimal.Zero}
	}

	for _, tx := range txs {
		switch t := tx.(type) {
		case Expense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)

			category := t.Category
			if category == "" {
				category = UncategorizedLabel
			}
			s.ByCategory[category] = s.ByCategory[category].Add(t.Amount)

			payer := roster.Resolve(t.PaidBy)
			totals := s.ByUnit[payer]
			totals.Paid = totals.Paid.Add(t.Amount)
			s.ByUnit[payer] = totals

			for unit, share := range shares(roster, t.Amount, t.Beneficiaries, t.Split) {
				u := s.ByUnit[unit]
				u.Share = u.Share.Add(share)
				s.ByUnit[unit] = u
			}
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		}
	}

	return s
}

// Remaining returns budget minus total expenses. Negative means overspent.
func (s Summary) Remaining(budget decimal.Decimal) decimal.Decimal {
	return budget.Sub(s.TotalExpenses)
}
