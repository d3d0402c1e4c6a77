package validate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/rankgo/blobstore"
	"github.com/hupe1980/rankgo/codec"
	"github.com/hupe1980/rankgo/model"
)

// Options configures a Cleaner.
type Options struct {
	// RawPrefix is the artifact prefix holding raw dataset pages.
	RawPrefix string
	// CleanPrefix is the artifact prefix for per-page cleaned output.
	CleanPrefix string
	// ValidatedName is the artifact name of the combined cleaned dataset.
	ValidatedName string
	// Codec decodes raw pages and encodes cleaned artifacts.
	Codec codec.Codec
	// Logger receives per-page progress; nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the default Cleaner options.
func DefaultOptions() Options {
	return Options{
		RawPrefix:     "datasets/",
		CleanPrefix:   "clean/",
		ValidatedName: "validated/validated_dataset.json",
		Codec:         codec.Default,
	}
}

// Stats summarizes a cleaning run.
type Stats struct {
	Pages        int
	Total        int
	Kept         int
	Dropped      int
	DistinctIDs  uint64
	DuplicateIDs int
}

// Cleaner walks raw dataset pages, keeps well-formed records, and writes
// cleaned artifacts. Duplicate ids are counted but retained: the ranking
// contract treats duplicates as distinct entries.
type Cleaner struct {
	store  blobstore.Store
	opts   Options
	logger *slog.Logger
}

// NewCleaner creates a Cleaner over the given artifact store.
func NewCleaner(store blobstore.Store, optFns ...func(*Options)) *Cleaner {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Cleaner{store: store, opts: opts, logger: logger}
}

// Clean processes all raw pages in ascending name order and returns the
// combined cleaned records. Pages that fail to decode are surfaced as
// errors rather than skipped: a malformed page means the fetch pass is
// broken, not the data.
func (c *Cleaner) Clean(ctx context.Context) ([]model.Record, Stats, error) {
	names, err := c.store.List(ctx, c.opts.RawPrefix)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("validate: list raw pages: %w", err)
	}

	var (
		combined []model.Record
		stats    Stats
		seen     = roaring64.New()
	)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		c.logger.InfoContext(ctx, "cleaning page", "page", name)

		data, err := c.store.Get(ctx, name)
		if err != nil {
			return nil, stats, fmt.Errorf("validate: read page %s: %w", name, err)
		}

		var rawRecords []map[string]any
		if err := c.opts.Codec.Unmarshal(data, &rawRecords); err != nil {
			return nil, stats, fmt.Errorf("validate: decode page %s: %w", name, err)
		}

		cleaned := make([]model.Record, 0, len(rawRecords))
		for _, raw := range rawRecords {
			stats.Total++
			rec, ok := Classify(raw)
			if !ok {
				stats.Dropped++
				continue
			}
			if seen.Contains(uint64(rec.ID)) {
				stats.DuplicateIDs++
			} else {
				seen.Add(uint64(rec.ID))
			}
			cleaned = append(cleaned, rec)
			combined = append(combined, rec)
		}
		stats.Pages++
		stats.Kept += len(cleaned)

		cleanName := path.Join(c.opts.CleanPrefix, path.Base(name))
		if err := c.putRecords(ctx, cleanName, cleaned); err != nil {
			return nil, stats, err
		}

		c.logger.InfoContext(ctx, "page cleaned",
			"page", name,
			"kept", len(cleaned),
			"dropped", len(rawRecords)-len(cleaned),
		)
	}

	stats.DistinctIDs = seen.GetCardinality()

	if err := c.putRecords(ctx, c.opts.ValidatedName, combined); err != nil {
		return nil, stats, err
	}

	c.logger.InfoContext(ctx, "validation pass complete",
		"pages", stats.Pages,
		"kept", stats.Kept,
		"dropped", stats.Dropped,
		"distinct_ids", stats.DistinctIDs,
		"duplicate_ids", stats.DuplicateIDs,
	)

	return combined, stats, nil
}

func (c *Cleaner) putRecords(ctx context.Context, name string, records []model.Record) error {
	data, err := c.opts.Codec.Marshal(records)
	if err != nil {
		return fmt.Errorf("validate: encode %s: %w", name, err)
	}
	if err := c.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("validate: write %s: %w", name, err)
	}
	return nil
}
