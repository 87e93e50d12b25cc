package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoster_Resolve(t *testing.T) {
	members := []Member{
		{ID: "alice", GroupID: "smiths"},
		{ID: "bob", GroupID: "smiths"},
		{ID: "carol"},
	}

	tests := []struct {
		name    string
		grouped bool
		id      string
		want    string
	}{
		{"participant ungrouped", false, "bob", "bob"},
		{"participant grouped", true, "bob", "smiths"},
		{"group id grouped", true, "smiths", "smiths"},
		{"group id ungrouped", false, "smiths", DefaultFallbackUnit},
		{"ungrouped member in grouped trip", true, "carol", DefaultFallbackUnit},
		{"legacy alias", false, "owner", "alice"},
		{"legacy alias grouped", true, "owner", "smiths"},
		{"unknown", false, "zed", DefaultFallbackUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := NewRoster(members, RosterOptions{
				Grouped:          tt.grouped,
				OwnerID:          "alice",
				LegacyOwnerAlias: DefaultLegacyOwnerAlias,
			})
			assert.Equal(t, tt.want, roster.Resolve(tt.id))
		})
	}
}

func TestRoster_Units(t *testing.T) {
	members := []Member{
		{ID: "carol", GroupID: "jones"},
		{ID: "alice", GroupID: "smiths"},
		{ID: "bob", GroupID: "smiths"},
	}

	flat := NewRoster(members, RosterOptions{OwnerID: "alice", LegacyOwnerAlias: "owner"})
	assert.Equal(t, []string{"carol", "alice", "bob"}, flat.Units())

	grouped := NewRoster(members, RosterOptions{Grouped: true, OwnerID: "alice", LegacyOwnerAlias: "owner"})
	assert.Equal(t, []string{"jones", "smiths"}, grouped.Units())
	assert.NotContains(t, grouped.Units(), "owner")

	units := grouped.Units()
	units[0] = "mutated"
	assert.Equal(t, "jones", grouped.Units()[0])
}

func TestRoster_CustomFallback(t *testing.T) {
	roster := NewRoster([]Member{{ID: "a"}}, RosterOptions{FallbackUnit: "former"})

	assert.Equal(t, "former", roster.Resolve("gone"))
	assert.Equal(t, "former", roster.FallbackUnit())
	assert.False(t, roster.IsMultiParty())
}

func TestRoster_Known(t *testing.T) {
	roster := NewRoster([]Member{
		{ID: "alice", GroupID: "smiths"},
		{ID: "bob"},
	}, RosterOptions{Grouped: true, OwnerID: "alice", LegacyOwnerAlias: "owner"})

	assert.True(t, roster.Known("alice"))
	assert.True(t, roster.Known("bob"))
	assert.True(t, roster.Known("smiths"))
	assert.True(t, roster.Known("owner"))
	assert.False(t, roster.Known("zed"))
	assert.False(t, roster.Known(DefaultFallbackUnit))

	flat := NewRoster([]Member{{ID: "alice", GroupID: "smiths"}}, RosterOptions{})
	assert.False(t, flat.Known("smiths"))
	assert.False(t, flat.Known("owner"))
}
