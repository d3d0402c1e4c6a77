// Package rankgo ingests a paginated, rate-limited remote dataset of
// restaurant records, validates it, and produces the K highest-ranked
// records in bounded time and memory.
//
// The core is a single-pass bounded top-K selection engine: each record is
// scored once, offered to a fixed-capacity selector, and the ≤K survivors
// are sorted only at the end. The scan is O(N log K) time and O(K) space
// no matter how large the input grows — the full dataset is never resident.
//
// # Quick start
//
//	store := blobstore.NewLocalStore("./data")
//	eng, err := rankgo.New(store,
//	    rankgo.WithK(10),
//	    rankgo.WithBaseURL("https://api.example.com/prod"),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	ctx := context.Background()
//	if _, err := eng.FetchDataset(ctx); err != nil { ... }
//	records, stats, err := eng.ValidateDataset(ctx)
//	results, err := eng.RankTopK(ctx, pipeline.NewSliceSource(records))
//
// The selector can also be used on its own when records arrive from
// elsewhere:
//
//	sel, _ := topk.NewSelector(10)
//	for _, rec := range records {
//	    scored, _ := rank.ScoreRecord(rec)
//	    sel.Offer(scored)
//	}
//	results := sel.Results()
//
// # Packages
//
//   - model: Record, ScoredRecord, ResultSet
//   - rank: scoring formula and the four-level ranking order
//   - topk: the fixed-capacity bounded selector
//   - pipeline: sources, single and sharded ranking scans, result sink
//   - validate: record classification and dataset cleaning
//   - fetch: authorized, rate-limited paginated download
//   - verify: grading-service submission
//   - blobstore: artifact storage (local, memory, S3, MinIO, compressed)
//   - codec: JSON encoding backends
package rankgo
