package app

import (
	"testing"

	"github.com/relaymesh/relaypick/internal/domain"
)

func prioritized(t *testing.T, tokens ...string) []domain.PrioritizedRelay {
	t.Helper()
	relays := make([]domain.PrioritizedRelay, len(tokens))
	for i, token := range tokens {
		id, err := domain.ParseRelayID(token)
		if err != nil {
			t.Fatalf("ParseRelayID(%q) error: %v", token, err)
		}
		relays[i] = domain.PrioritizedRelay{Record: domain.Record{ID: id}}
	}
	return relays
}

func keptIDs(relays []domain.PrioritizedRelay) []string {
	out := make([]string, len(relays))
	for i, pr := range relays {
		out[i] = pr.Record.ID.String()
	}
	return out
}

func TestIncludeFilter(t *testing.T) {
	candidates := prioritized(t, "us-nyc-001", "us-lax-002", "de-ber-001", "ber7", "jp-tyo-001")
	f := includeFilter{groups: map[string]bool{"us": true, "ber": true}}

	var kept []string
	for _, pr := range candidates {
		if f.Keep(pr) {
			kept = append(kept, pr.Record.ID.String())
		}
	}
	want := []string{"us-nyc-001", "us-lax-002", "ber007"}
	if len(kept) != len(want) {
		t.Fatalf("kept %v, want %v", kept, want)
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Errorf("kept[%d] = %s, want %s", i, kept[i], want[i])
		}
	}
}

func TestExcludeFilter_AnyGranularity(t *testing.T) {
	f := excludeFilter{groups: map[string]bool{
		"de":         true, // whole country
		"us-lax":     true, // one city
		"us-nyc-002": true, // one relay
	}}

	tests := []struct {
		token string
		keep  bool
	}{
		{"de-ber-001", false},
		{"de-fra-003", false},
		{"us-lax-001", false},
		{"us-nyc-002", false},
		{"us-nyc-001", true},
		{"jp-tyo-001", true},
	}
	for _, tt := range tests {
		pr := prioritized(t, tt.token)[0]
		if got := f.Keep(pr); got != tt.keep {
			t.Errorf("Keep(%s) = %v, want %v", tt.token, got, tt.keep)
		}
	}
}

func TestRejectFilter(t *testing.T) {
	f := rejectFilter{ids: map[string]bool{"us-nyc-001": true}}
	if f.Keep(prioritized(t, "us-nyc-001")[0]) {
		t.Error("rejected identifier kept")
	}
	if !f.Keep(prioritized(t, "us-nyc-002")[0]) {
		t.Error("unrelated identifier dropped")
	}
}

func TestApplyFilters_ANDChain(t *testing.T) {
	candidates := prioritized(t, "us-nyc-001", "us-nyc-002", "us-lax-001", "de-ber-001")
	req := &Request{
		Includes: []IncludeRule{{Group: "us"}},
		Excludes: map[string]bool{"us-lax": true},
		Rejects:  map[string]bool{"us-nyc-002": true},
	}

	got := keptIDs(applyFilters(candidates, buildFilters(req)))
	if len(got) != 1 || got[0] != "us-nyc-001" {
		t.Errorf("applyFilters() = %v, want [us-nyc-001]", got)
	}
}

func TestGroupByKey(t *testing.T) {
	relays := prioritized(t, "us-nyc-001", "de-ber-001", "us-lax-001", "ber7")
	groups, keys := groupByKey(relays)

	wantKeys := []string{"ber", "de", "us"}
	if len(keys) != len(wantKeys) {
		t.Fatalf("keys = %v, want %v", keys, wantKeys)
	}
	for i := range wantKeys {
		if keys[i] != wantKeys[i] {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], wantKeys[i])
		}
	}
	if len(groups["us"]) != 2 || len(groups["de"]) != 1 || len(groups["ber"]) != 1 {
		t.Errorf("group sizes = us:%d de:%d ber:%d, want 2/1/1",
			len(groups["us"]), len(groups["de"]), len(groups["ber"]))
	}
}
