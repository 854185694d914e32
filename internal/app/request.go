// Package app implements the relay selection pipeline: filter, stratified
// sampling, transform planning, collision detection and output writing.
// It wires domain logic with the store, never the reverse.
package app

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/relaymesh/relaypick/internal/domain"
)

// RawRequest is the unvalidated request surface, as it arrives from CLI
// flags or from a YAML rules file. String fields use the compound token
// forms ("us:3", "us-nyc-001=home") so the two sources stay symmetric.
type RawRequest struct {
	Include    []string `yaml:"include"` // "us" or "us:3"
	Exclude    []string `yaml:"exclude"` // grouping
	Prefer     []string `yaml:"prefer"`  // grouping or identifier
	Shun       []string `yaml:"shun"`    // grouping or identifier
	Reject     []string `yaml:"reject"`  // identifier
	Rename     []string `yaml:"rename"`  // "identifier=name"
	Max        int      `yaml:"max"`
	Seed       *int64   `yaml:"seed"`
	Prefix     string   `yaml:"prefix"`
	Address    string   `yaml:"address"`
	DNS        []string `yaml:"dns"`
	PrivateKey string   `yaml:"private_key"`
}

// IncludeRule names one admitted group and its optional quota.
// Quota <= 0 means the group is admitted without trimming.
type IncludeRule struct {
	Group string
	Quota int
}

// Request is the validated, read-only rule set for one invocation.
type Request struct {
	Includes   []IncludeRule // sorted by group
	Excludes   map[string]bool
	Rejects    map[string]bool // canonical identifier tokens
	Priorities *domain.PriorityMap
	Max        int
	Seed       int64
	DryRun     bool
	Force      bool
	Transform  TransformSpec
}

var (
	groupKeyPattern = regexp.MustCompile(`^[a-z]+$`)
	renameSafe      = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// BuildRequest validates a raw request and compiles it into a Request.
// All validation failures are reported together rather than one at a time.
func BuildRequest(raw RawRequest) (*Request, error) {
	var errs error

	req := &Request{
		Excludes:   make(map[string]bool),
		Rejects:    make(map[string]bool),
		Priorities: domain.NewPriorityMap(),
		Max:        raw.Max,
		Transform: TransformSpec{
			Prefix:     raw.Prefix,
			Suffix:     OutputSuffix,
			Address:    raw.Address,
			DNS:        raw.DNS,
			PrivateKey: raw.PrivateKey,
			Renames:    make(map[string]string),
		},
	}
	// An explicit seed makes runs reproducible; otherwise each run draws
	// a fresh one.
	if raw.Seed != nil {
		req.Seed = *raw.Seed
	} else {
		req.Seed = time.Now().UnixNano()
	}

	// Inclusion rules: "group" or "group:quota", group listed at most once.
	seen := make(map[string]bool)
	for _, token := range raw.Include {
		rule, err := parseIncludeRule(token)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if seen[rule.Group] {
			errs = multierr.Append(errs,
				fmt.Errorf("%w: %q", domain.ErrDuplicateInclude, rule.Group))
			continue
		}
		seen[rule.Group] = true
		req.Includes = append(req.Includes, rule)
	}
	sort.Slice(req.Includes, func(i, j int) bool {
		return req.Includes[i].Group < req.Includes[j].Group
	})

	// Exclusion rules, checked against the inclusion list.
	for _, token := range raw.Exclude {
		g, err := domain.ParseGrouping(token)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if seen[g] {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", domain.ErrRuleConflict, g))
			continue
		}
		req.Excludes[g] = true
	}

	// Priority overrides. PriorityMap.Set fails fast on prefer+shun over
	// the same grouping.
	for _, token := range raw.Prefer {
		errs = multierr.Append(errs, setTier(req.Priorities, token, domain.TierPrefer))
	}
	for _, token := range raw.Shun {
		errs = multierr.Append(errs, setTier(req.Priorities, token, domain.TierShun))
	}

	// Per-identifier rejection.
	for _, token := range raw.Reject {
		id, err := domain.ParseRelayID(token)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		req.Rejects[id.String()] = true
	}

	// Renames: "identifier=name", one target per identifier.
	for _, token := range raw.Rename {
		id, name, err := parseRename(token)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if prev, ok := req.Transform.Renames[id]; ok && prev != name {
			errs = multierr.Append(errs,
				fmt.Errorf("%w: %q → %q and %q", domain.ErrDuplicateRename, id, prev, name))
			continue
		}
		req.Transform.Renames[id] = name
	}

	if errs != nil {
		return nil, errs
	}
	return req, nil
}

func parseIncludeRule(token string) (IncludeRule, error) {
	group, quotaStr, hasQuota := strings.Cut(token, ":")
	if !groupKeyPattern.MatchString(group) {
		return IncludeRule{}, fmt.Errorf("%w: include %q (want country or region code)", domain.ErrBadGrouping, token)
	}
	rule := IncludeRule{Group: group}
	if hasQuota {
		q, err := strconv.Atoi(quotaStr)
		if err != nil || q < 1 {
			return IncludeRule{}, fmt.Errorf("%w: include %q (quota must be a positive integer)", domain.ErrBadGrouping, token)
		}
		rule.Quota = q
	}
	return rule, nil
}

func parseRename(token string) (id, name string, err error) {
	head, name, found := strings.Cut(token, "=")
	if !found || name == "" {
		return "", "", fmt.Errorf("%w: %q (want identifier=name)", domain.ErrBadRename, token)
	}
	parsed, err := domain.ParseRelayID(head)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q: %v", domain.ErrBadRename, token, err)
	}
	if !renameSafe.MatchString(name) {
		return "", "", fmt.Errorf("%w: %q (name must be filename-safe)", domain.ErrBadRename, token)
	}
	return parsed.String(), name, nil
}

func setTier(p *domain.PriorityMap, token string, tier domain.Tier) error {
	g, err := domain.ParseGrouping(token)
	if err != nil {
		return err
	}
	return p.Set(g, tier)
}
