package app

import (
	"fmt"

	"github.com/relaymesh/relaypick/internal/domain"
	"github.com/relaymesh/relaypick/internal/infra/store"
)

// OutputSuffix is the fixed extension of every emitted relay configuration.
const OutputSuffix = ".conf"

// TransformSpec is the reusable per-invocation transform template: optional
// field overrides plus a per-identifier rename table.
type TransformSpec struct {
	Prefix     string
	Suffix     string
	Address    string
	DNS        []string
	PrivateKey string
	Renames    map[string]string // canonical identifier → output name
}

// Basename computes the destination basename for an identifier:
// prefix + (rename-name | canonical token) + suffix.
func (ts TransformSpec) Basename(id domain.RelayID) string {
	name := id.String()
	if renamed, ok := ts.Renames[name]; ok {
		name = renamed
	}
	return ts.Prefix + name + ts.Suffix
}

// OutputRecord is one planned output: a selected relay, its destination
// basename and its mutated document.
type OutputRecord struct {
	ID       domain.RelayID
	Basename string
	Doc      *store.Document
}

// Transformer turns selected records into OutputRecords. Each record is
// transformed at most once per run; the planning pass fills the cache and
// the collision check and write phase read from it.
type Transformer struct {
	spec  TransformSpec
	cache map[string]*OutputRecord
}

// NewTransformer creates a transformer for one invocation.
func NewTransformer(spec TransformSpec) *Transformer {
	return &Transformer{spec: spec, cache: make(map[string]*OutputRecord)}
}

// Plan computes (or returns the cached) output record for rec. Field
// overrides apply independently of whether a rename entry exists.
func (t *Transformer) Plan(rec domain.Record) (*OutputRecord, error) {
	key := rec.ID.String()
	if out, ok := t.cache[key]; ok {
		return out, nil
	}

	doc, err := store.ReadDocument(rec.Source)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", key, err)
	}
	if t.spec.Address != "" {
		doc.Set(store.InterfaceSection, store.KeyAddress, t.spec.Address)
	}
	if len(t.spec.DNS) > 0 {
		doc.Set(store.InterfaceSection, store.KeyDNS, t.spec.DNS)
	}
	if t.spec.PrivateKey != "" {
		doc.Set(store.InterfaceSection, store.KeyPrivateKey, t.spec.PrivateKey)
	}

	out := &OutputRecord{
		ID:       rec.ID,
		Basename: t.spec.Basename(rec.ID),
		Doc:      doc,
	}
	t.cache[key] = out
	return out, nil
}

// CheckCollisions verifies no two distinct identifiers map to the same
// destination basename. User-supplied renames can alias two relays onto one
// name; that must abort the run before anything is written.
func CheckCollisions(outputs []*OutputRecord) error {
	byName := make(map[string]string, len(outputs))
	for _, out := range outputs {
		if prev, ok := byName[out.Basename]; ok {
			return fmt.Errorf("%w: %s and %s both map to %q",
				domain.ErrNameCollision, prev, out.ID, out.Basename)
		}
		byName[out.Basename] = out.ID.String()
	}
	return nil
}
