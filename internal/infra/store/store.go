package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/relaymesh/relaypick/internal/domain"
)

// SourceSuffix is the file extension a pool entry must carry to be
// considered a relay configuration.
const SourceSuffix = ".conf"

// Discover scans dir for relay configurations and returns one Record per
// unique identifier, sorted by identifier.
//
// Entries whose basename does not parse as a relay identifier are skipped
// with a warning. When two entries parse to the same identifier (for
// example us-nyc-1.conf and us-nyc-001.conf), entries are visited in
// lexicographic name order and the last one wins. The tie-break is
// deterministic and independent of filesystem iteration order.
func Discover(dir string, logger *zap.Logger) ([]domain.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan pool %s: %w", dir, err)
	}

	// os.ReadDir sorts by name; keep that order for the tie-break.
	byID := make(map[string]domain.Record)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SourceSuffix) {
			continue
		}
		token := strings.TrimSuffix(entry.Name(), SourceSuffix)
		id, err := domain.ParseRelayID(token)
		if err != nil {
			logger.Warn("skipping unrecognized pool entry",
				zap.String("entry", entry.Name()),
				zap.Error(err))
			continue
		}
		key := id.String()
		if prev, ok := byID[key]; ok {
			logger.Warn("duplicate relay identifier, keeping later entry",
				zap.String("id", key),
				zap.String("dropped", prev.Source),
				zap.String("kept", entry.Name()))
		}
		byID[key] = domain.Record{
			Source: filepath.Join(dir, entry.Name()),
			ID:     id,
		}
	}

	records := make([]domain.Record, 0, len(byID))
	for _, rec := range byID {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return domain.CompareRelayIDs(records[i].ID, records[j].ID) < 0
	})
	return records, nil
}

// EnsureDest prepares the destination directory. A pre-existing destination
// is fatal unless force is set, in which case outputs are merged into it.
func EnsureDest(dir string, force bool) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("destination %s exists and is not a directory", dir)
		}
		if !force {
			return fmt.Errorf("%w: %s (use --force to merge)", domain.ErrDestinationExists, dir)
		}
		return nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create destination %s: %w", dir, err)
		}
		return nil
	default:
		return fmt.Errorf("stat destination %s: %w", dir, err)
	}
}
