package app

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/relaymesh/relaypick/internal/domain"
)

// makeGroup builds n prioritized relays in one country, assigning tiers
// round-robin from the given slice.
func makeGroup(t *testing.T, country string, n int, tiers ...domain.Tier) []domain.PrioritizedRelay {
	t.Helper()
	if len(tiers) == 0 {
		tiers = []domain.Tier{domain.TierDefault}
	}
	group := make([]domain.PrioritizedRelay, n)
	for i := 0; i < n; i++ {
		id, err := domain.ParseRelayID(fmt.Sprintf("%s-aaa-%03d", country, i+1))
		if err != nil {
			t.Fatalf("bad fixture id: %v", err)
		}
		group[i] = domain.PrioritizedRelay{
			Record: domain.Record{ID: id},
			Tier:   tiers[i%len(tiers)],
		}
	}
	return group
}

func idSet(relays []domain.PrioritizedRelay) map[string]domain.Tier {
	set := make(map[string]domain.Tier, len(relays))
	for _, pr := range relays {
		set[pr.Record.ID.String()] = pr.Tier
	}
	return set
}

func TestSample_GroupFitsQuota(t *testing.T) {
	group := makeGroup(t, "us", 4)
	got := newStratifiedSampler(1).Sample(group, 10)
	if len(got) != 4 {
		t.Errorf("Sample() kept %d, want all 4 when group fits quota", len(got))
	}
}

func TestSample_ZeroQuotaDisablesTrimming(t *testing.T) {
	group := makeGroup(t, "us", 7)
	for _, quota := range []int{0, -1} {
		if got := newStratifiedSampler(1).Sample(group, quota); len(got) != 7 {
			t.Errorf("Sample(quota=%d) kept %d, want 7 (no trimming)", quota, len(got))
		}
	}
}

func TestSample_ExactQuotaWhenPoolLarge(t *testing.T) {
	group := makeGroup(t, "us", 50, domain.TierShun, domain.TierDefault, domain.TierPrefer)
	got := newStratifiedSampler(7).Sample(group, 12)
	if len(got) != 12 {
		t.Errorf("Sample() kept %d, want exactly 12", len(got))
	}
}

func TestSample_PreferRetainedBeforeDefault(t *testing.T) {
	// 5 prefer, 10 default, quota 8: every prefer member must survive and
	// exactly 3 defaults fill the rest.
	group := append(
		makeGroup(t, "us", 5, domain.TierPrefer),
		makeGroup(t, "de", 10, domain.TierDefault)...,
	)
	got := newStratifiedSampler(3).Sample(group, 8)
	if len(got) != 8 {
		t.Fatalf("Sample() kept %d, want 8", len(got))
	}
	var prefer, def int
	for _, pr := range got {
		switch pr.Tier {
		case domain.TierPrefer:
			prefer++
		case domain.TierDefault:
			def++
		}
	}
	if prefer != 5 || def != 3 {
		t.Errorf("kept %d prefer / %d default, want 5 / 3", prefer, def)
	}
}

func TestSample_ShunOnlyWhenNeeded(t *testing.T) {
	// 4 default, 6 shun, quota 4: the boundary lands on the default tier
	// and no shunned relay may appear.
	group := append(
		makeGroup(t, "us", 4, domain.TierDefault),
		makeGroup(t, "de", 6, domain.TierShun)...,
	)
	got := newStratifiedSampler(5).Sample(group, 4)
	for _, pr := range got {
		if pr.Tier == domain.TierShun {
			t.Errorf("shunned relay %s selected while defaults were available", pr.Record.ID)
		}
	}

	// Quota 7 forces 3 shunned picks.
	got = newStratifiedSampler(5).Sample(group, 7)
	var shunned int
	for _, pr := range got {
		if pr.Tier == domain.TierShun {
			shunned++
		}
	}
	if len(got) != 7 || shunned != 3 {
		t.Errorf("kept %d with %d shunned, want 7 with 3", len(got), shunned)
	}
}

func TestSample_FixedSeedIsDeterministic(t *testing.T) {
	group := makeGroup(t, "us", 40, domain.TierDefault, domain.TierPrefer, domain.TierShun)

	first := idSet(newStratifiedSampler(99).Sample(group, 11))
	for i := 0; i < 10; i++ {
		again := idSet(newStratifiedSampler(99).Sample(group, 11))
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs under fixed seed (-first +again):\n%s", i, diff)
		}
	}
}

// TestSample_Invariants drives the sampler over randomly shaped groups and
// checks the structural guarantees hold for every shape.
func TestSample_Invariants(t *testing.T) {
	shapes := rand.New(rand.NewSource(2024))
	for trial := 0; trial < 200; trial++ {
		nPrefer := shapes.Intn(10)
		nDefault := shapes.Intn(20)
		nShun := shapes.Intn(10)
		quota := shapes.Intn(30) + 1

		group := append(makeGroup(t, "us", nPrefer, domain.TierPrefer),
			append(makeGroup(t, "de", nDefault, domain.TierDefault),
				makeGroup(t, "jp", nShun, domain.TierShun)...)...)
		total := len(group)

		got := newStratifiedSampler(int64(trial)).Sample(group, quota)

		wantLen := quota
		if total < quota {
			wantLen = total
		}
		if len(got) != wantLen {
			t.Fatalf("trial %d: kept %d, want min(quota=%d, pool=%d)=%d",
				trial, len(got), quota, total, wantLen)
		}

		seen := idSet(got)
		if len(seen) != len(got) {
			t.Fatalf("trial %d: sampled with replacement", trial)
		}

		var gotPrefer, gotDefault, gotShun int
		for _, pr := range got {
			switch pr.Tier {
			case domain.TierPrefer:
				gotPrefer++
			case domain.TierDefault:
				gotDefault++
			case domain.TierShun:
				gotShun++
			}
		}
		// Higher tiers are exhausted before lower tiers contribute.
		if gotDefault > 0 && gotPrefer != min(nPrefer, wantLen) {
			t.Fatalf("trial %d: defaults selected while prefer tier not exhausted (%d/%d)",
				trial, gotPrefer, nPrefer)
		}
		if gotShun > 0 && gotDefault != nDefault {
			t.Fatalf("trial %d: shunned selected while default tier not exhausted", trial)
		}
	}
}
