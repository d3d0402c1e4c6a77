package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rankgo/blobstore"
	"github.com/hupe1980/rankgo/codec"
	"github.com/hupe1980/rankgo/model"
	"github.com/hupe1980/rankgo/rank"
	"github.com/hupe1980/rankgo/topk"
)

// DefaultK is the reference top-K cutoff.
const DefaultK = 10

// Options configures a Ranker.
type Options struct {
	// Shards is the number of parallel partitions RankPartitions fans out
	// to at most; Rank always runs a single scan. Defaults to 1.
	Shards int
	// Codec encodes the results artifact. Defaults to codec.Default.
	Codec codec.Codec
	// Logger receives scan progress; nil discards.
	Logger *slog.Logger
}

// Ranker runs ranking scans: it scores records, feeds them through a
// bounded selector, and finalizes the ordered result set.
type Ranker struct {
	k      int
	opts   Options
	logger *slog.Logger
}

// NewRanker creates a Ranker with capacity k.
// An invalid k is rejected here, before any record is processed.
func NewRanker(k int, optFns ...func(*Options)) (*Ranker, error) {
	if k <= 0 {
		return nil, topk.ErrInvalidK
	}

	opts := Options{Shards: 1, Codec: codec.Default}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Shards < 1 {
		opts.Shards = 1
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Ranker{k: k, opts: opts, logger: logger}, nil
}

// K returns the configured capacity.
func (r *Ranker) K() int { return r.k }

// Rank consumes src to exhaustion and returns the top-K result set,
// strongest first. Fewer than K records in the source is not an error; the
// result is simply shorter.
//
// If ctx is cancelled mid-scan, Rank finalizes the candidates admitted so
// far and returns them alongside the context error: a partial scan is still
// a valid selector state, just not an exhaustive one.
//
// A scoring failure aborts the scan; the returned error carries the
// offending record so the upstream validation gap can be diagnosed.
func (r *Ranker) Rank(ctx context.Context, src Source) (model.ResultSet, error) {
	sel, err := topk.NewSelector(r.k)
	if err != nil {
		return nil, err
	}

	n, err := r.scan(ctx, src, sel)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return sel.Results(), err
		}
		return nil, err
	}

	r.logger.InfoContext(ctx, "scan complete", "records", n, "kept", sel.Len(), "k", r.k)

	return sel.Results(), nil
}

// RankPartitions runs one bounded scan per source in parallel and merges
// the partial results through a final selector of the same capacity. The
// output is identical to ranking the concatenation of all sources.
func (r *Ranker) RankPartitions(ctx context.Context, sources []Source) (model.ResultSet, error) {
	if len(sources) == 0 {
		return model.ResultSet{}, nil
	}
	if len(sources) == 1 {
		return r.Rank(ctx, sources[0])
	}

	// Validate k once, up front.
	if _, err := topk.NewSelector(r.k); err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		partials []model.ResultSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Shards)

	for _, src := range sources {
		src := src
		g.Go(func() error {
			sel, err := topk.NewSelector(r.k)
			if err != nil {
				return err
			}
			if _, err := r.scan(gctx, src, sel); err != nil {
				return err
			}
			mu.Lock()
			partials = append(partials, sel.Results())
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge: the true top-K is a subset of the union of partial top-Ks.
	merged, err := topk.NewSelector(r.k)
	if err != nil {
		return nil, err
	}
	for _, partial := range partials {
		for _, rec := range partial {
			merged.Offer(rec)
		}
	}

	r.logger.InfoContext(ctx, "sharded scan complete",
		"partitions", len(sources), "kept", merged.Len(), "k", r.k)

	return merged.Results(), nil
}

// scan drains src into sel, scoring each record once.
func (r *Ranker) scan(ctx context.Context, src Source, sel *topk.Selector) (int, error) {
	var n int
	for {
		rec, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}

		scored, err := rank.ScoreRecord(rec)
		if err != nil {
			return n, fmt.Errorf("pipeline: scoring %s: %w", rec, err)
		}

		sel.Offer(scored)
		n++
	}
}

// WriteResults encodes the result set and stores it under name.
func (r *Ranker) WriteResults(ctx context.Context, store blobstore.Store, name string, results model.ResultSet) error {
	data, err := r.opts.Codec.Marshal(results)
	if err != nil {
		return fmt.Errorf("pipeline: encode results: %w", err)
	}
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("pipeline: write results %s: %w", name, err)
	}
	r.logger.InfoContext(ctx, "results written", "artifact", name, "records", len(results))
	return nil
}
