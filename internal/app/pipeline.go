package app

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relaymesh/relaypick/internal/domain"
	"github.com/relaymesh/relaypick/internal/infra/store"
)

// Pipeline runs one selection: discover → resolve priorities → filter →
// group/sample → cap/sample → transform-plan → collision-check →
// (dry-run: stop) → create-or-merge destination → write. Linear, no
// branching back, single-threaded.
type Pipeline struct {
	req    *Request
	logger *zap.Logger
}

// Result summarizes one run. Outputs are ordered by identifier.
type Result struct {
	Outputs []*OutputRecord
	Written int
	DryRun  bool
}

// NewPipeline wires a validated request with a logger. Every run gets a
// fresh ID stamped on its log lines.
func NewPipeline(req *Request, logger *zap.Logger) *Pipeline {
	runID := uuid.New().String()[:8]
	return &Pipeline{
		req:    req,
		logger: logger.With(zap.String("run", runID)),
	}
}

// Run executes the pipeline from a source pool directory into destDir.
func (p *Pipeline) Run(sourceDir, destDir string) (*Result, error) {
	req := p.req

	// Discover the pool.
	records, err := store.Discover(sourceDir, p.logger)
	if err != nil {
		return nil, err
	}
	p.logger.Info("pool discovered",
		zap.String("source", sourceDir),
		zap.Int("relays", len(records)))

	// Resolve priorities.
	candidates := make([]domain.PrioritizedRelay, len(records))
	for i, rec := range records {
		candidates[i] = domain.PrioritizedRelay{
			Record: rec,
			Tier:   req.Priorities.Resolve(rec.ID),
		}
	}

	// Filter stage.
	kept := applyFilters(candidates, buildFilters(req))
	p.logger.Info("filter stage done", zap.Int("eligible", len(kept)))

	sampler := newStratifiedSampler(req.Seed)

	// Group-quota stage. Groups are visited in sorted key order so the
	// shared generator is consumed deterministically.
	if quotas := quotasByGroup(req.Includes); len(quotas) > 0 {
		groups, keys := groupByKey(kept)
		kept = kept[:0]
		for _, key := range keys {
			kept = append(kept, sampler.Sample(groups[key], quotas[key])...)
		}
		p.logger.Info("group quota stage done", zap.Int("eligible", len(kept)))
	}

	// Global cap stage: the whole surviving set as one group.
	if req.Max > 0 {
		kept = sampler.Sample(kept, req.Max)
		p.logger.Info("cap stage done", zap.Int("selected", len(kept)))
	}

	// Transform plan. A record whose document cannot be read is skipped
	// with a diagnostic, not fatal.
	transformer := NewTransformer(req.Transform)
	outputs := make([]*OutputRecord, 0, len(kept))
	for _, pr := range kept {
		out, err := transformer.Plan(pr.Record)
		if err != nil {
			p.logger.Warn("skipping unreadable relay",
				zap.String("id", pr.Record.ID.String()),
				zap.Error(err))
			continue
		}
		outputs = append(outputs, out)
	}
	sort.Slice(outputs, func(i, j int) bool {
		return domain.CompareRelayIDs(outputs[i].ID, outputs[j].ID) < 0
	})

	// Collision check before any destination I/O.
	if err := CheckCollisions(outputs); err != nil {
		return nil, err
	}

	result := &Result{Outputs: outputs, DryRun: req.DryRun}
	if req.DryRun {
		p.logger.Info("dry run, stopping before write", zap.Int("planned", len(outputs)))
		return result, nil
	}

	// Destination create-or-merge, then one sequential write per output.
	if err := store.EnsureDest(destDir, req.Force); err != nil {
		return nil, err
	}
	start := time.Now()
	for _, out := range outputs {
		path := filepath.Join(destDir, out.Basename)
		if err := out.Doc.WriteFile(path); err != nil {
			return result, fmt.Errorf("write output: %w", err)
		}
		result.Written++
	}
	p.logger.Info("outputs written",
		zap.Int("files", result.Written),
		zap.String("dest", destDir),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// quotasByGroup extracts the quota table from the inclusion rules. Rules
// without a quota map to 0, which the sampler treats as "no trimming".
func quotasByGroup(rules []IncludeRule) map[string]int {
	if len(rules) == 0 {
		return nil
	}
	quotas := make(map[string]int, len(rules))
	for _, rule := range rules {
		quotas[rule.Group] = rule.Quota
	}
	return quotas
}
