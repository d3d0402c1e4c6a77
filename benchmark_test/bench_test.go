package benchmark_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/hupe1980/rankgo"
	"github.com/hupe1980/rankgo/blobstore"
	"github.com/hupe1980/rankgo/model"
	"github.com/hupe1980/rankgo/pipeline"
	"github.com/hupe1980/rankgo/rank"
	"github.com/hupe1980/rankgo/testutil"
	"github.com/hupe1980/rankgo/topk"
)

func BenchmarkScore(b *testing.B) {
	b.ReportAllocs()

	records := testutil.NewRNG(1).Records(1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rank.Score(records[i%len(records)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSelector_Offer(b *testing.B) {
	b.ReportAllocs()

	rng := testutil.NewRNG(1)
	scored := make([]model.ScoredRecord, 4096)
	for i := range scored {
		scored[i] = mustScore(b, rng.Record(int64(i)))
	}

	selector, err := topk.NewSelector(10)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		selector.Offer(scored[i%len(scored)])
	}
}

func BenchmarkRank(b *testing.B) {
	for _, size := range []int{1_000, 100_000} {
		b.Run(strconv.Itoa(size), func(b *testing.B) {
			benchmarkRank(b, size, 1)
		})
	}
}

func BenchmarkRank_Sharded(b *testing.B) {
	benchmarkRank(b, 100_000, 4)
}

func benchmarkRank(b *testing.B, size, shards int) {
	b.ReportAllocs()

	records := testutil.NewRNG(1).Records(size)

	engine, err := rankgo.New(blobstore.NewMemoryStore(),
		rankgo.WithK(10),
		rankgo.WithShards(shards),
	)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if shards > 1 {
			_, err = engine.RankPartitions(ctx, pipeline.Partition(records, shards))
		} else {
			_, err = engine.RankTopK(ctx, pipeline.NewSliceSource(records))
		}
		if err != nil {
			b.Fatal(err)
		}
	}
}

func mustScore(b *testing.B, r model.Record) model.ScoredRecord {
	b.Helper()
	scored, err := rank.ScoreRecord(r)
	if err != nil {
		b.Fatal(err)
	}
	return scored
}
