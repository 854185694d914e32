package app

import (
	"math/rand"
	"sort"

	"github.com/relaymesh/relaypick/internal/domain"
)

// Sampler reduces a group of relays to at most quota members.
type Sampler interface {
	Sample(group []domain.PrioritizedRelay, quota int) []domain.PrioritizedRelay
}

// stratifiedSampler keeps whole priority tiers from prefer downward and
// draws uniformly without replacement inside the single tier that straddles
// the quota boundary. Lower tiers are dropped entirely, so randomness is
// confined to that one boundary tier.
//
// All draws come from one shared generator, seeded once per run. Tier
// members are visited in identifier order, so a fixed seed over fixed
// inputs reproduces the exact selection.
type stratifiedSampler struct {
	rng *rand.Rand
}

func newStratifiedSampler(seed int64) *stratifiedSampler {
	return &stratifiedSampler{rng: rand.New(rand.NewSource(seed))}
}

// tierOrder lists tiers from highest to lowest survival priority.
var tierOrder = []domain.Tier{domain.TierPrefer, domain.TierDefault, domain.TierShun}

func (s *stratifiedSampler) Sample(group []domain.PrioritizedRelay, quota int) []domain.PrioritizedRelay {
	if quota <= 0 || len(group) <= quota {
		return group
	}

	byTier := make(map[domain.Tier][]domain.PrioritizedRelay)
	for _, pr := range group {
		byTier[pr.Tier] = append(byTier[pr.Tier], pr)
	}

	picked := make([]domain.PrioritizedRelay, 0, quota)
	remaining := quota
	for _, tier := range tierOrder {
		members := byTier[tier]
		if len(members) == 0 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			return domain.CompareRelayIDs(members[i].Record.ID, members[j].Record.ID) < 0
		})
		if len(members) <= remaining {
			picked = append(picked, members...)
			remaining -= len(members)
			if remaining == 0 {
				break
			}
			continue
		}
		// Boundary tier: fill the remaining quota at random, then stop.
		for _, idx := range s.rng.Perm(len(members))[:remaining] {
			picked = append(picked, members[idx])
		}
		break
	}
	return picked
}
