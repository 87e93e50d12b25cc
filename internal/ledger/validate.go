package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SplitTolerance is the largest allocation gap that still counts as balanced.
// The comparison is strict: a gap of exactly one cent is rejected.
var SplitTolerance = decimal.New(1, -2)

// Formatter renders an amount for validation messages.
type Formatter func(decimal.Decimal) string

// DefaultFormatter prints two decimal places.
func DefaultFormatter(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ValidationResult reports whether a drafted split may be submitted.
type ValidationResult struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

// Draft is a transaction being edited, before it joins the ledger.
type Draft struct {
	Amount        decimal.Decimal
	Beneficiaries []string
	Split         Split
}

// ValidateSplit checks a drafted split against its amount.
// It never fails; problems are reported through the result message.
func ValidateSplit(roster *Roster, draft Draft, format Formatter) ValidationResult {
	if format == nil {
		format = DefaultFormatter
	}

	if !roster.IsMultiParty() {
		return ValidationResult{IsValid: true}
	}

	custom, ok := draft.Split.(CustomSplit)
	if !ok {
		if len(draft.Beneficiaries) == 0 {
			return ValidationResult{Message: "Select at least one beneficiary"}
		}
		return ValidationResult{IsValid: true}
	}

	allocated := resolveAmounts(roster, custom.Amounts)
	sum := decimal.Zero
	for _, u := range roster.units {
		sum = sum.Add(allocated[u])
	}

	diff := draft.Amount.Sub(sum)
	if diff.Abs().LessThan(SplitTolerance) {
		return ValidationResult{IsValid: true}
	}
	if diff.IsPositive() {
		return ValidationResult{Message: fmt.Sprintf("%s left to allocate", format(diff))}
	}
	return ValidationResult{Message: fmt.Sprintf("Over-allocated by %s", format(diff.Neg()))}
}

// StrayAllocations lists custom split keys with a non-zero amount whose unit
// is not one of the draft's beneficiary units. ComputeBalances only debits
// beneficiaries, so a split that relies on such entries does not net to zero.
func StrayAllocations(roster *Roster, draft Draft) []string {
	custom, ok := draft.Split.(CustomSplit)
	if !ok {
		return nil
	}

	beneficiaries := make(map[string]struct{}, len(draft.Beneficiaries))
	for _, u := range roster.resolveAll(draft.Beneficiaries) {
		beneficiaries[u] = struct{}{}
	}

	var stray []string
	for id, v := range custom.Amounts {
		if v.IsZero() {
			continue
		}
		if _, ok := beneficiaries[roster.Resolve(id)]; !ok {
			stray = append(stray, id)
		}
	}
	sort.Strings(stray)
	return stray
}
