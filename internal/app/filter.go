package app

import (
	"sort"

	"github.com/relaymesh/relaypick/internal/domain"
)

// Filter is one predicate in the AND-chain of the filter stage. A relay
// survives only if every filter keeps it.
type Filter interface {
	Keep(pr domain.PrioritizedRelay) bool
}

// includeFilter admits only relays whose group key is named by an
// inclusion rule. An empty inclusion list admits everything, so the
// pipeline only installs this filter when rules exist.
type includeFilter struct {
	groups map[string]bool
}

func (f includeFilter) Keep(pr domain.PrioritizedRelay) bool {
	return f.groups[pr.Record.ID.GroupKey()]
}

// excludeFilter drops relays any of whose groupings is excluded, so an
// exclusion may name a country, a city or a single relay.
type excludeFilter struct {
	groups map[string]bool
}

func (f excludeFilter) Keep(pr domain.PrioritizedRelay) bool {
	for _, g := range pr.Record.ID.Groups() {
		if f.groups[g] {
			return false
		}
	}
	return true
}

// rejectFilter drops individually rejected identifiers.
type rejectFilter struct {
	ids map[string]bool
}

func (f rejectFilter) Keep(pr domain.PrioritizedRelay) bool {
	return !f.ids[pr.Record.ID.String()]
}

// buildFilters compiles the request's rule sets into the filter chain.
func buildFilters(req *Request) []Filter {
	var filters []Filter
	if len(req.Includes) > 0 {
		groups := make(map[string]bool, len(req.Includes))
		for _, rule := range req.Includes {
			groups[rule.Group] = true
		}
		filters = append(filters, includeFilter{groups: groups})
	}
	if len(req.Excludes) > 0 {
		filters = append(filters, excludeFilter{groups: req.Excludes})
	}
	if len(req.Rejects) > 0 {
		filters = append(filters, rejectFilter{ids: req.Rejects})
	}
	return filters
}

// applyFilters runs the AND-chain over the candidate set.
func applyFilters(candidates []domain.PrioritizedRelay, filters []Filter) []domain.PrioritizedRelay {
	if len(filters) == 0 {
		return candidates
	}
	kept := make([]domain.PrioritizedRelay, 0, len(candidates))
next:
	for _, pr := range candidates {
		for _, f := range filters {
			if !f.Keep(pr) {
				continue next
			}
		}
		kept = append(kept, pr)
	}
	return kept
}

// groupByKey partitions relays by their group key and returns the keys in
// sorted order, so callers traverse groups deterministically.
func groupByKey(relays []domain.PrioritizedRelay) (map[string][]domain.PrioritizedRelay, []string) {
	groups := make(map[string][]domain.PrioritizedRelay)
	for _, pr := range relays {
		key := pr.Record.ID.GroupKey()
		groups[key] = append(groups[key], pr)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return groups, keys
}
