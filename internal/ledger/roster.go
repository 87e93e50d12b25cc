package ledger

// DefaultFallbackUnit receives amounts for ids the roster cannot resolve,
// e.g. participants removed from a trip after they were charged.
const DefaultFallbackUnit = "unassigned"

// DefaultLegacyOwnerAlias is the sentinel id older records use for the trip owner.
const DefaultLegacyOwnerAlias = "owner"

// Member is the roster's view of a trip participant.
type Member struct {
	ID      string
	GroupID string
}

// RosterOptions controls how ids map to settlement units.
type RosterOptions struct {
	// Grouped tracks balances per group (family) instead of per participant.
	Grouped bool

	// OwnerID is the current owner's participant id.
	OwnerID string

	// LegacyOwnerAlias is rewritten to OwnerID before any other lookup.
	// Empty disables alias handling.
	LegacyOwnerAlias string

	// FallbackUnit collects unresolvable ids. Defaults to DefaultFallbackUnit.
	FallbackUnit string
}

// Roster resolves participant and group ids to settlement units.
// It is immutable once built and safe for concurrent use.
type Roster struct {
	opts    RosterOptions
	members map[string]Member
	groups  map[string]struct{}
	units   []string
	count   int
}

// NewRoster builds a roster from the trip's ordered participant list.
func NewRoster(members []Member, opts RosterOptions) *Roster {
	if opts.FallbackUnit == "" {
		opts.FallbackUnit = DefaultFallbackUnit
	}

	r := &Roster{
		opts:    opts,
		members: make(map[string]Member, len(members)),
		groups:  make(map[string]struct{}),
	}

	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := r.members[m.ID]; dup {
			continue
		}
		r.members[m.ID] = m
		r.count++
		if m.GroupID != "" {
			r.groups[m.GroupID] = struct{}{}
		}

		unit := r.unitFor(m)
		if _, ok := seen[unit]; ok {
			continue
		}
		seen[unit] = struct{}{}
		r.units = append(r.units, unit)
	}

	return r
}

func (r *Roster) unitFor(m Member) string {
	if !r.opts.Grouped {
		return m.ID
	}
	if m.GroupID == "" {
		return r.opts.FallbackUnit
	}
	return m.GroupID
}

// Resolve maps a participant id, group id or legacy alias to its settlement unit.
func (r *Roster) Resolve(id string) string {
	if r.opts.LegacyOwnerAlias != "" && id == r.opts.LegacyOwnerAlias && r.opts.OwnerID != "" {
		id = r.opts.OwnerID
	}

	if m, ok := r.members[id]; ok {
		return r.unitFor(m)
	}
	if r.opts.Grouped {
		if _, ok := r.groups[id]; ok {
			return id
		}
	}
	return r.opts.FallbackUnit
}

// resolveAll resolves ids to units, dropping duplicates but keeping first-seen order.
func (r *Roster) resolveAll(ids []string) []string {
	units := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		u := r.Resolve(id)
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		units = append(units, u)
	}
	return units
}

// Units returns the known settlement units in participant order.
func (r *Roster) Units() []string {
	out := make([]string, len(r.units))
	copy(out, r.units)
	return out
}

// IsMultiParty reports whether more than one participant shares the trip.
func (r *Roster) IsMultiParty() bool {
	return r.count > 1
}

// FallbackUnit returns the unit that collects unresolvable ids.
func (r *Roster) FallbackUnit() string {
	return r.opts.FallbackUnit
}

// Known reports whether id names a participant, a group (when grouping is
// on) or the legacy owner alias, i.e. anything Resolve maps without the fallback.
func (r *Roster) Known(id string) bool {
	if r.opts.LegacyOwnerAlias != "" && id == r.opts.LegacyOwnerAlias && r.opts.OwnerID != "" {
		return true
	}
	if _, ok := r.members[id]; ok {
		return true
	}
	if r.opts.Grouped {
		_, ok := r.groups[id]
		return ok
	}
	return false
}
