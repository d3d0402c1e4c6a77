package pipeline_test

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rankgo/blobstore"
	"github.com/hupe1980/rankgo/codec"
	"github.com/hupe1980/rankgo/model"
	"github.com/hupe1980/rankgo/pipeline"
	"github.com/hupe1980/rankgo/rank"
	"github.com/hupe1980/rankgo/testutil"
	"github.com/hupe1980/rankgo/topk"
)

func bruteForce(t *testing.T, records []model.Record, k int) model.ResultSet {
	t.Helper()
	scored := make([]model.ScoredRecord, len(records))
	for i, rec := range records {
		s, err := rank.ScoreRecord(rec)
		require.NoError(t, err)
		scored[i] = s
	}
	sort.Slice(scored, func(i, j int) bool {
		return rank.Compare(scored[i], scored[j]) > 0
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func TestNewRanker_InvalidK(t *testing.T) {
	_, err := pipeline.NewRanker(0)
	assert.ErrorIs(t, err, topk.ErrInvalidK)

	_, err = pipeline.NewRanker(-5)
	assert.ErrorIs(t, err, topk.ErrInvalidK)
}

func TestRanker_Rank(t *testing.T) {
	rng := testutil.NewRNG(21)
	records := rng.Records(300)

	ranker, err := pipeline.NewRanker(10)
	require.NoError(t, err)

	results, err := ranker.Rank(context.Background(), pipeline.NewSliceSource(records))
	require.NoError(t, err)
	assert.Equal(t, bruteForce(t, records, 10), results)
}

func TestRanker_SortedByFormulaScore(t *testing.T) {
	records := []model.Record{
		{ID: 1, Name: "The Great Restaurant", Rating: 9.94, Distance: 150.31},
		{ID: 2, Name: "Cuisine Delight", Rating: 9.20, Distance: 120.00},
		{ID: 3, Name: "The Amazing Eatery", Rating: 8.76, Distance: 200.45},
	}

	ranker, err := pipeline.NewRanker(3)
	require.NoError(t, err)

	results, err := ranker.Rank(context.Background(), pipeline.NewSliceSource(records))
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Strongest first under the score formula.
	assert.Equal(t, "Cuisine Delight", results[0].Name)
	assert.Equal(t, 33.82, results[0].Score)
	assert.Equal(t, "The Great Restaurant", results[1].Name)
	assert.Equal(t, 25.93, results[1].Score)
	assert.Equal(t, "The Amazing Eatery", results[2].Name)
	assert.Equal(t, -12.34, results[2].Score)
}

func TestRanker_NameTiebreak(t *testing.T) {
	// Same id, rating and distance: identical scores, so the name decides.
	records := []model.Record{
		{ID: 5, Name: "Bravo", Rating: 8.00, Distance: 250.00},
		{ID: 5, Name: "Alpha", Rating: 8.00, Distance: 250.00},
	}

	ranker, err := pipeline.NewRanker(2)
	require.NoError(t, err)

	results, err := ranker.Rank(context.Background(), pipeline.NewSliceSource(records))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Alpha", results[0].Name)
	assert.Equal(t, "Bravo", results[1].Name)
	assert.Equal(t, results[0].Score, results[1].Score)
}

func TestRanker_ShortInput(t *testing.T) {
	rng := testutil.NewRNG(5)
	records := rng.Records(3)

	ranker, err := pipeline.NewRanker(10)
	require.NoError(t, err)

	results, err := ranker.Rank(context.Background(), pipeline.NewSliceSource(records))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, bruteForce(t, records, 10), results)
}

func TestRanker_EmptyInput(t *testing.T) {
	ranker, err := pipeline.NewRanker(10)
	require.NoError(t, err)

	results, err := ranker.Rank(context.Background(), pipeline.NewSliceSource(nil))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRanker_UnscorableRecordAborts(t *testing.T) {
	records := []model.Record{
		{ID: 1, Name: "Fine", Rating: 5.0, Distance: 100},
		{ID: 2, Name: "Broken", Rating: math.NaN(), Distance: 100},
	}

	ranker, err := pipeline.NewRanker(10)
	require.NoError(t, err)

	_, err = ranker.Rank(context.Background(), pipeline.NewSliceSource(records))
	require.Error(t, err)

	var nf *rank.ErrNonFiniteInput
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, model.ID(2), nf.Record.ID)
}

func TestRanker_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rng := testutil.NewRNG(31)
	ranker, err := pipeline.NewRanker(10)
	require.NoError(t, err)

	results, err := ranker.Rank(ctx, pipeline.NewSliceSource(rng.Records(100)))
	assert.ErrorIs(t, err, context.Canceled)
	// Partial state is still a valid (possibly empty) result set.
	assert.NotNil(t, results)
}

func TestRanker_RankPartitionsMatchesSingleScan(t *testing.T) {
	rng := testutil.NewRNG(77)
	records := rng.Records(1000)

	for _, shards := range []int{2, 3, 7} {
		ranker, err := pipeline.NewRanker(10, func(o *pipeline.Options) {
			o.Shards = shards
		})
		require.NoError(t, err)

		got, err := ranker.RankPartitions(context.Background(), pipeline.Partition(records, shards))
		require.NoError(t, err)
		assert.Equal(t, bruteForce(t, records, 10), got, "shards=%d", shards)
	}
}

func TestRanker_RankPartitionsEmpty(t *testing.T) {
	ranker, err := pipeline.NewRanker(10)
	require.NoError(t, err)

	results, err := ranker.RankPartitions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRanker_WriteResults(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	rng := testutil.NewRNG(9)
	records := rng.Records(50)

	ranker, err := pipeline.NewRanker(5)
	require.NoError(t, err)

	results, err := ranker.Rank(ctx, pipeline.NewSliceSource(records))
	require.NoError(t, err)

	require.NoError(t, ranker.WriteResults(ctx, store, "topk_results.json", results))

	data, err := store.Get(ctx, "topk_results.json")
	require.NoError(t, err)

	var decoded model.ResultSet
	require.NoError(t, codecUnmarshal(data, &decoded))
	assert.Equal(t, results, decoded)
}

func TestStoreSource(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	rng := testutil.NewRNG(15)
	records := rng.Records(20)

	data := codec.MustMarshal(nil, records)
	require.NoError(t, store.Put(ctx, "validated/validated_dataset.json", data))

	src := pipeline.NewStoreSource(store, "validated/validated_dataset.json", nil)

	ranker, err := pipeline.NewRanker(10)
	require.NoError(t, err)

	results, err := ranker.Rank(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, bruteForce(t, records, 10), results)
}

func TestStoreSource_Missing(t *testing.T) {
	src := pipeline.NewStoreSource(blobstore.NewMemoryStore(), "nope.json", nil)
	_, err := src.Next(context.Background())
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func codecUnmarshal(data []byte, v any) error { return codec.Default.Unmarshal(data, v) }

func TestPartition(t *testing.T) {
	rng := testutil.NewRNG(1)
	records := rng.Records(10)

	sources := pipeline.Partition(records, 3)
	assert.Len(t, sources, 3)

	var total int
	ctx := context.Background()
	for _, src := range sources {
		for {
			_, err := src.Next(ctx)
			if err != nil {
				break
			}
			total++
		}
	}
	assert.Equal(t, 10, total)
}
