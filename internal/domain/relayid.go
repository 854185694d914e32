// Package domain defines the relay identifier model and priority types.
// Pure values, no infrastructure dependency.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ─── Relay Identifiers ──────────────────────────────────────────────────────
// Two naming schemes coexist in a relay pool:
//
//	flat:   region + instance        ber7      → "ber007"
//	nested: country + city + instance  us-nyc-1  → "us-nyc-001"
//
// Both render to a canonical zero-padded token, so "us-nyc-1" and
// "us-nyc-001" name the same relay.

// RelayID uniquely identifies one relay configuration record.
type RelayID interface {
	// String returns the canonical zero-padded token.
	String() string

	// Groups returns the identifier's groupings from most to least
	// specific, starting with the canonical token itself. Used for
	// priority resolution.
	Groups() []string

	// GroupKey returns the coarse partition attribute (country for the
	// nested scheme, region for the flat one). Used for inclusion rules
	// and per-group quotas.
	GroupKey() string
}

// instanceWidth is the zero-padding width of the instance ordinal in
// canonical tokens.
const instanceWidth = 3

var (
	nestedPattern = regexp.MustCompile(`^([a-z]+)-([a-z]+)-([0-9]+)`)
	flatPattern   = regexp.MustCompile(`^([a-z]+)([0-9]+)`)
)

// FlatID is a region-scheme identifier, e.g. "ber007".
type FlatID struct {
	Region   string
	Instance int
}

func (f FlatID) String() string {
	return fmt.Sprintf("%s%0*d", f.Region, instanceWidth, f.Instance)
}

func (f FlatID) Groups() []string {
	return []string{f.String(), f.Region}
}

func (f FlatID) GroupKey() string { return f.Region }

// NestedID is a country/city-scheme identifier, e.g. "us-nyc-001".
type NestedID struct {
	Country  string
	City     string
	Instance int
}

func (n NestedID) String() string {
	return fmt.Sprintf("%s-%s-%0*d", n.Country, n.City, instanceWidth, n.Instance)
}

func (n NestedID) Groups() []string {
	return []string{n.String(), n.Country + "-" + n.City, n.Country}
}

func (n NestedID) GroupKey() string { return n.Country }

// ParseRelayID parses a complete token into a RelayID. The whole token must
// match; trailing or leading garbage is rejected.
func ParseRelayID(token string) (RelayID, error) {
	id, rest, err := ParseRelayIDPrefix(token)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("%w: trailing %q in %q", ErrBadIdentifier, rest, token)
	}
	return id, nil
}

// ParseRelayIDPrefix consumes the longest identifier at the head of s and
// returns the unconsumed remainder. Used for compound tokens such as
// "us-nyc-001=home". The nested scheme is tried first so that "us-nyc-001"
// is never split into flat "us" plus garbage.
func ParseRelayIDPrefix(s string) (RelayID, string, error) {
	if m := nestedPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, "", fmt.Errorf("%w: instance %q: %v", ErrBadIdentifier, m[3], err)
		}
		return NestedID{Country: m[1], City: m[2], Instance: n}, s[len(m[0]):], nil
	}
	if m := flatPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, "", fmt.Errorf("%w: instance %q: %v", ErrBadIdentifier, m[2], err)
		}
		return FlatID{Region: m[1], Instance: n}, s[len(m[0]):], nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrBadIdentifier, s)
}

// CompareRelayIDs imposes a strict total order over identifiers of both
// schemes. Canonical tokens are unique per identifier (the flat scheme never
// contains a hyphen), so ordering by token is a valid total order.
func CompareRelayIDs(a, b RelayID) int {
	return strings.Compare(a.String(), b.String())
}

// SameRelayID reports whether two identifiers name the same relay.
func SameRelayID(a, b RelayID) bool {
	return a.String() == b.String()
}

// ─── Groupings ──────────────────────────────────────────────────────────────

var groupingPattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)?$`)

// ParseGrouping validates a grouping token: either a full identifier or a
// coarser grouping (country, country-city, or region). Returns the grouping
// key in canonical form.
func ParseGrouping(token string) (string, error) {
	if groupingPattern.MatchString(token) {
		return token, nil
	}
	id, err := ParseRelayID(token)
	if err != nil {
		return "", fmt.Errorf("%w: %q is neither a grouping nor an identifier", ErrBadGrouping, token)
	}
	return id.String(), nil
}

// ─── Records ────────────────────────────────────────────────────────────────

// Record pairs a relay identifier with the source file it was discovered
// from. Immutable after discovery.
type Record struct {
	Source string // path to the source configuration file
	ID     RelayID
}

// PrioritizedRelay is a Record paired with its resolved priority tier.
// Explicit composition, no field forwarding.
type PrioritizedRelay struct {
	Record Record
	Tier   Tier
}
