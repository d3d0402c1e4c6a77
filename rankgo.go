package rankgo

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/rankgo/blobstore"
	"github.com/hupe1980/rankgo/fetch"
	"github.com/hupe1980/rankgo/model"
	"github.com/hupe1980/rankgo/pipeline"
	"github.com/hupe1980/rankgo/topk"
	"github.com/hupe1980/rankgo/validate"
	"github.com/hupe1980/rankgo/verify"
)

// ErrNoAPI is returned by operations that need the dataset API when the
// Engine was built without a base URL.
var ErrNoAPI = errors.New("no api base url configured")

// ErrNoRunMarker is returned by RunOnce when no run marker was configured.
var ErrNoRunMarker = errors.New("no run marker configured")

// RunMarker records completed pipeline runs, so a full cycle executes at
// most once per run id across concurrent writers. s3.RunMarkerStore
// implements it with DynamoDB conditional writes.
type RunMarker interface {
	// Mark records the run as complete, pointing at its results artifact.
	Mark(ctx context.Context, runID, resultsName string) error
	// Lookup resolves a previously marked run to its results artifact name.
	Lookup(ctx context.Context, runID string) (resultsName string, found bool, err error)
}

// Engine ties the two pipelines together over one artifact store: fetch →
// validate (the validation pipeline) and source → score → select → sort →
// sink (the ranking pipeline).
//
// Engine methods are safe to call concurrently as long as they target
// different scans; a single ranking scan owns its selector exclusively.
type Engine struct {
	opts    options
	store   blobstore.Store
	logger  *Logger
	metrics MetricsCollector
	ranker  *pipeline.Ranker

	api      *fetch.Client
	fetcher  *fetch.Fetcher
	cleaner  *validate.Cleaner
	verifier *verify.Client
	marker   RunMarker
}

// New creates an Engine over the given artifact store.
// An invalid K is rejected here, before any record is processed.
func New(store blobstore.Store, optFns ...Option) (*Engine, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.k <= 0 {
		return nil, ErrInvalidK
	}
	if opts.logger == nil {
		opts.logger = NoopLogger()
	}

	ranker, err := pipeline.NewRanker(opts.k, func(o *pipeline.Options) {
		o.Shards = opts.shards
		o.Codec = opts.codec
		o.Logger = opts.logger.Logger
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		opts:    opts,
		store:   store,
		logger:  opts.logger.WithK(opts.k),
		metrics: opts.metricsCollector,
		ranker:  ranker,
		marker:  opts.runMarker,
	}

	e.cleaner = validate.NewCleaner(store, func(o *validate.Options) {
		o.Codec = opts.codec
		o.Logger = opts.logger.Logger
	})

	if opts.baseURL != "" {
		e.api = fetch.NewClient(opts.baseURL, func(o *fetch.ClientOptions) {
			o.HTTPClient = opts.httpClient
		})
		e.fetcher = fetch.NewFetcher(e.api, store, func(o *fetch.Options) {
			o.PageInterval = opts.pageInterval
			o.MaxPages = opts.maxPages
			o.Codec = opts.codec
			o.Logger = opts.logger.Logger
		})
		e.verifier = verify.NewClient(e.api, func(o *verify.Options) {
			o.Codec = opts.codec
			o.Logger = opts.logger.Logger
		})
	}

	return e, nil
}

// K returns the configured top-K cutoff.
func (e *Engine) K() int { return e.opts.k }

// Store returns the engine's artifact store.
func (e *Engine) Store() blobstore.Store { return e.store }

// NewSelector returns a fresh bounded selector with the engine's capacity,
// for callers that drive the scan themselves (e.g. custom sharding).
func (e *Engine) NewSelector() (*topk.Selector, error) {
	return topk.NewSelector(e.opts.k)
}

// FetchDataset downloads all dataset pages into the artifact store.
// Requires a configured base URL.
func (e *Engine) FetchDataset(ctx context.Context) ([]string, error) {
	if e.fetcher == nil {
		return nil, ErrNoAPI
	}

	start := time.Now()
	pages, err := e.fetcher.FetchAll(ctx)
	e.metrics.RecordFetch(len(pages), time.Since(start), err)
	e.logger.LogFetch(ctx, len(pages), err)
	return pages, err
}

// ValidateDataset classifies all stored raw pages and writes the cleaned
// artifacts. Returns the combined cleaned records.
func (e *Engine) ValidateDataset(ctx context.Context) ([]model.Record, validate.Stats, error) {
	start := time.Now()
	records, stats, err := e.cleaner.Clean(ctx)
	e.metrics.RecordValidate(stats.Kept, stats.Dropped, time.Since(start), err)
	e.logger.LogValidate(ctx, stats.Kept, stats.Dropped, err)
	return records, stats, err
}

// RankTopK runs a ranking scan over src and returns the ordered top-K.
func (e *Engine) RankTopK(ctx context.Context, src pipeline.Source) (model.ResultSet, error) {
	start := time.Now()
	results, err := e.ranker.Rank(ctx, src)
	err = translateError(err)
	e.metrics.RecordRank(e.opts.k, len(results), time.Since(start), err)
	e.logger.LogRank(ctx, e.opts.k, len(results), err)
	return results, err
}

// RankPartitions runs a sharded ranking scan over the given partitions.
func (e *Engine) RankPartitions(ctx context.Context, sources []pipeline.Source) (model.ResultSet, error) {
	start := time.Now()
	results, err := e.ranker.RankPartitions(ctx, sources)
	err = translateError(err)
	e.metrics.RecordRank(e.opts.k, len(results), time.Since(start), err)
	e.logger.LogRank(ctx, e.opts.k, len(results), err)
	return results, err
}

// RankStored ranks the previously validated dataset from the artifact
// store and writes the results artifact.
func (e *Engine) RankStored(ctx context.Context) (model.ResultSet, error) {
	src := pipeline.NewStoreSource(e.store, validate.DefaultOptions().ValidatedName, e.opts.codec)
	results, err := e.RankTopK(ctx, src)
	if err != nil {
		return results, err
	}
	if err := e.ranker.WriteResults(ctx, e.store, e.opts.resultsName, results); err != nil {
		return results, err
	}
	return results, nil
}

// SubmitValidation sends the cleaned dataset to the grading service.
func (e *Engine) SubmitValidation(ctx context.Context, records []model.Record) ([]byte, error) {
	if e.verifier == nil {
		return nil, ErrNoAPI
	}

	start := time.Now()
	resp, err := e.verifier.CheckValidation(ctx, records)
	e.metrics.RecordSubmit("/test/check-data-validation", time.Since(start), err)
	e.logger.LogSubmit(ctx, "/test/check-data-validation", err)
	return resp, err
}

// SubmitResults sends the top-K result set to the grading service.
func (e *Engine) SubmitResults(ctx context.Context, results model.ResultSet) ([]byte, error) {
	if e.verifier == nil {
		return nil, ErrNoAPI
	}

	start := time.Now()
	resp, err := e.verifier.CheckTopK(ctx, results)
	e.metrics.RecordSubmit("/test/check-topk-sort", time.Since(start), err)
	e.logger.LogSubmit(ctx, "/test/check-topk-sort", err)
	return resp, err
}

// Run executes the full cycle: fetch, validate, rank, persist results, and
// submit both artifacts for verification.
func (e *Engine) Run(ctx context.Context) (model.ResultSet, error) {
	if _, err := e.FetchDataset(ctx); err != nil {
		return nil, err
	}

	records, _, err := e.ValidateDataset(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := e.SubmitValidation(ctx, records); err != nil {
		return nil, err
	}

	var results model.ResultSet
	if e.opts.shards > 1 {
		results, err = e.RankPartitions(ctx, pipeline.Partition(records, e.opts.shards))
	} else {
		results, err = e.RankTopK(ctx, pipeline.NewSliceSource(records))
	}
	if err != nil {
		return nil, err
	}

	if err := e.ranker.WriteResults(ctx, e.store, e.opts.resultsName, results); err != nil {
		return results, err
	}

	if _, err := e.SubmitResults(ctx, results); err != nil {
		return results, err
	}

	return results, nil
}

// RunOnce executes the full cycle at most once per run id. A run that was
// already marked (by this process or a concurrent writer) is resolved to
// its persisted results artifact instead of re-running the pipeline. The
// second return value reports whether a previous run's results were reused.
func (e *Engine) RunOnce(ctx context.Context, runID string) (model.ResultSet, bool, error) {
	if e.marker == nil {
		return nil, false, ErrNoRunMarker
	}

	name, found, err := e.marker.Lookup(ctx, runID)
	if err != nil {
		return nil, false, err
	}
	if found {
		e.logger.InfoContext(ctx, "run already marked", "run_id", runID, "results", name)
		results, err := e.loadResults(ctx, name)
		return results, true, err
	}

	results, err := e.Run(ctx)
	if err != nil {
		return nil, false, err
	}

	if markErr := e.marker.Mark(ctx, runID, e.opts.resultsName); markErr != nil {
		// Lost the race: a concurrent writer marked the run between our
		// Lookup and Mark. Their results are authoritative.
		if name, found, err := e.marker.Lookup(ctx, runID); err == nil && found {
			e.logger.InfoContext(ctx, "run marked by concurrent writer", "run_id", runID, "results", name)
			winner, loadErr := e.loadResults(ctx, name)
			return winner, true, loadErr
		}
		return nil, false, markErr
	}

	return results, false, nil
}

func (e *Engine) loadResults(ctx context.Context, name string) (model.ResultSet, error) {
	data, err := e.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	var results model.ResultSet
	if err := e.opts.codec.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}
