package domain

import "fmt"

// ─── Priority Tiers ─────────────────────────────────────────────────────────

// Tier governs a relay's likelihood of survival under quota-limited
// sampling. Higher tiers are exhausted first.
type Tier int

const (
	TierShun    Tier = -1
	TierDefault Tier = 0
	TierPrefer  Tier = 1
)

// String returns the tier as a human-readable string.
func (t Tier) String() string {
	switch t {
	case TierShun:
		return "shun"
	case TierDefault:
		return "default"
	case TierPrefer:
		return "prefer"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// ParseTier parses a tier name as it appears in rules files.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "shun":
		return TierShun, nil
	case "default", "":
		return TierDefault, nil
	case "prefer":
		return TierPrefer, nil
	}
	return TierDefault, fmt.Errorf("invalid tier %q (want shun, default or prefer)", s)
}

// ─── Priority Map ───────────────────────────────────────────────────────────

// PriorityMap maps groupings to explicit priority tiers. Resolution walks an
// identifier's groupings from most to least specific; the first explicit
// entry wins, so an exact-identifier override beats a city override beats a
// country override.
//
// A fresh map is built per invocation; nothing survives across runs.
type PriorityMap struct {
	tiers map[string]Tier
}

// NewPriorityMap returns an empty priority map.
func NewPriorityMap() *PriorityMap {
	return &PriorityMap{tiers: make(map[string]Tier)}
}

// Set assigns a tier to a grouping. Assigning two different tiers to the
// same grouping in one run is a hard error, detected here rather than
// silently resolved last-wins. Re-assigning the same tier is a no-op.
func (p *PriorityMap) Set(grouping string, tier Tier) error {
	if cur, ok := p.tiers[grouping]; ok && cur != tier {
		return fmt.Errorf("%w: %q assigned both %s and %s", ErrTierConflict, grouping, cur, tier)
	}
	p.tiers[grouping] = tier
	return nil
}

// Resolve returns the tier that applies to id: the most specific explicit
// entry, or TierDefault when no grouping of id has one.
func (p *PriorityMap) Resolve(id RelayID) Tier {
	for _, g := range id.Groups() {
		if t, ok := p.tiers[g]; ok {
			return t
		}
	}
	return TierDefault
}

// Len returns the number of explicit entries.
func (p *PriorityMap) Len() int { return len(p.tiers) }
