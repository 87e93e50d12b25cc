package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dec parses a decimal literal for test fixtures.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDec compares decimals by value, ignoring representation (100 vs 100.00).
func assertDec(t *testing.T, want string, got decimal.Decimal, label ...string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%v: want %s, got %s", label, want, got)
}

func flatRoster(ids ...string) *Roster {
	members := make([]Member, len(ids))
	for i, id := range ids {
		members[i] = Member{ID: id}
	}
	return NewRoster(members, RosterOptions{OwnerID: ids[0], LegacyOwnerAlias: DefaultLegacyOwnerAlias})
}

func TestComputeBalances_EqualSplit(t *testing.T) {
	roster := flatRoster("alice", "bob", "carol", "dave")

	balances := ComputeBalances(roster, []Transaction{
		Expense{ID: "t1", PaidBy: "dave", Beneficiaries: []string{"alice", "bob", "carol"}, Split: EqualSplit{}, Amount: dec("300")},
	})

	assertDec(t, "300", balances["dave"])
	for _, id := range []string{"alice", "bob", "carol"} {
		assertDec(t, "-100", balances[id], id)
	}
}

func TestComputeBalances_PayerAlsoBeneficiary(t *testing.T) {
	roster := flatRoster("alice", "bob")

	balances := ComputeBalances(roster, []Transaction{
		Expense{ID: "t1", PaidBy: "alice", Beneficiaries: []string{"alice", "bob"}, Split: EqualSplit{}, Amount: dec("80")},
	})

	assertDec(t, "40", balances["alice"])
	assertDec(t, "-40", balances["bob"])
}

func TestComputeBalances_Transfer(t *testing.T) {
	roster := flatRoster("a", "b", "c")

	balances := ComputeBalances(roster, []Transaction{
		Transfer{ID: "t1", From: "a", To: "b", Amount: dec("50")},
	})

	assertDec(t, "50", balances["a"])
	assertDec(t, "-50", balances["b"])
	assertDec(t, "0", balances["c"])
}

func TestComputeBalances_Income(t *testing.T) {
	roster := flatRoster("a", "b")

	balances := ComputeBalances(roster, []Transaction{
		Income{ID: "t1", PaidBy: "a", Beneficiaries: []string{"a", "b"}, Split: EqualSplit{}, Amount: dec("120")},
	})

	// a holds the refund but half of it belongs to b.
	assertDec(t, "-60", balances["a"])
	assertDec(t, "60", balances["b"])
}

func TestComputeBalances_EmptyList(t *testing.T) {
	roster := flatRoster("a", "b", "c")

	balances := ComputeBalances(roster, nil)

	require.Len(t, balances, 3)
	for _, u := range roster.Units() {
		assertDec(t, "0", balances[u], u)
	}
}

func TestComputeBalances_CustomSplit(t *testing.T) {
	roster := flatRoster("a", "b", "c")

	balances := ComputeBalances(roster, []Transaction{
		Expense{
			ID:            "t1",
			PaidBy:        "a",
			Beneficiaries: []string{"a", "b", "c"},
			Split:         CustomSplit{Amounts: map[string]decimal.Decimal{"a": dec("10"), "b": dec("90")}},
			Amount:        dec("100"),
		},
	})

	assertDec(t, "90", balances["a"])
	assertDec(t, "-90", balances["b"])
	// c has no entry and contributes zero.
	assertDec(t, "0", balances["c"])
}

func TestComputeBalances_NoBeneficiaries(t *testing.T) {
	roster := flatRoster("a", "b")

	balances := ComputeBalances(roster, []Transaction{
		Expense{ID: "t1", PaidBy: "a", Split: EqualSplit{}, Amount: dec("40")},
	})

	assertDec(t, "40", balances["a"])
	assertDec(t, "0", balances["b"])
}

func TestComputeBalances_LegacyOwnerAlias(t *testing.T) {
	roster := NewRoster(
		[]Member{{ID: "u-1"}, {ID: "u-2"}},
		RosterOptions{OwnerID: "u-1", LegacyOwnerAlias: "owner"},
	)

	balances := ComputeBalances(roster, []Transaction{
		Expense{ID: "t1", PaidBy: "owner", Beneficiaries: []string{"owner", "u-2"}, Split: EqualSplit{}, Amount: dec("10")},
		Expense{
			ID:            "t2",
			PaidBy:        "u-2",
			Beneficiaries: []string{"owner"},
			Split:         CustomSplit{Amounts: map[string]decimal.Decimal{"owner": dec("4")}},
			Amount:        dec("4"),
		},
	})

	_, aliased := balances["owner"]
	assert.False(t, aliased, "legacy alias must not appear as a balance key")
	assertDec(t, "1", balances["u-1"])
	assertDec(t, "-1", balances["u-2"])
}

func TestComputeBalances_Grouped(t *testing.T) {
	roster := NewRoster([]Member{
		{ID: "alice", GroupID: "smiths"},
		{ID: "bob", GroupID: "smiths"},
		{ID: "carol", GroupID: "jones"},
	}, RosterOptions{Grouped: true, OwnerID: "alice"})

	balances := ComputeBalances(roster, []Transaction{
		// alice and bob resolve to the same unit, so the split is two ways.
		Expense{ID: "t1", PaidBy: "alice", Beneficiaries: []string{"alice", "bob", "carol"}, Split: EqualSplit{}, Amount: dec("100")},
		Transfer{ID: "t2", From: "jones", To: "bob", Amount: dec("20")},
	})

	assert.Equal(t, []string{"smiths", "jones"}, roster.Units())
	assert.Len(t, balances, 2)
	assertDec(t, "30", balances["smiths"])
	assertDec(t, "-30", balances["jones"])
}

func TestComputeBalances_UnresolvableIDsUseFallback(t *testing.T) {
	roster := flatRoster("a", "b")

	balances := ComputeBalances(roster, []Transaction{
		Expense{ID: "t1", PaidBy: "a", Beneficiaries: []string{"removed-user"}, Split: EqualSplit{}, Amount: dec("25")},
	})

	assertDec(t, "25", balances["a"])
	assertDec(t, "-25", balances[DefaultFallbackUnit])
}

func TestComputeBalances_ZeroSumMixedTypes(t *testing.T) {
	roster := flatRoster("a", "b", "c", "d")

	txs := []Transaction{
		Expense{ID: "1", PaidBy: "a", Beneficiaries: []string{"a", "b", "c"}, Split: EqualSplit{}, Amount: dec("100")},
		Expense{ID: "2", PaidBy: "b", Beneficiaries: []string{"c", "d"}, Split: EqualSplit{}, Amount: dec("33.33")},
		Expense{
			ID:            "3",
			PaidBy:        "c",
			Beneficiaries: []string{"a", "d"},
			Split:         CustomSplit{Amounts: map[string]decimal.Decimal{"a": dec("12.5"), "d": dec("7.5")}},
			Amount:        dec("20"),
			Category:      "food",
		},
		Income{ID: "4", PaidBy: "d", Beneficiaries: []string{"a", "b", "c", "d"}, Split: EqualSplit{}, Amount: dec("10")},
		Income{
			ID:            "5",
			PaidBy:        "a",
			Beneficiaries: []string{"b", "c"},
			Split:         CustomSplit{Amounts: map[string]decimal.Decimal{"b": dec("1"), "c": dec("2")}},
			Amount:        dec("3"),
		},
		Transfer{ID: "6", From: "b", To: "a", Amount: dec("15")},
	}

	balances := ComputeBalances(roster, txs)

	assert.True(t, balances.Sum().Abs().LessThan(dec("0.000000001")), "sum = %s", balances.Sum())
}
