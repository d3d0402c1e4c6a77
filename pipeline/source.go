package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/rankgo/blobstore"
	"github.com/hupe1980/rankgo/codec"
	"github.com/hupe1980/rankgo/model"
)

// Source yields cleaned records one at a time. It is a finite,
// non-restartable sequence: Next returns io.EOF once exhausted and keeps
// returning it afterwards. Sources need not be safe for concurrent use;
// a scan owns its source.
type Source interface {
	Next(ctx context.Context) (model.Record, error)
}

// SliceSource serves records from an in-memory slice.
type SliceSource struct {
	records []model.Record
	pos     int
}

// NewSliceSource creates a Source over the given records.
// The slice is not copied; the caller must not mutate it during the scan.
func NewSliceSource(records []model.Record) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record or io.EOF.
func (s *SliceSource) Next(ctx context.Context) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	if s.pos >= len(s.records) {
		return model.Record{}, io.EOF
	}
	r := s.records[s.pos]
	s.pos++
	return r, nil
}

// StoreSource reads the validated dataset artifact lazily on first Next and
// then serves its records in order.
type StoreSource struct {
	store blobstore.Store
	name  string
	codec codec.Codec

	loaded bool
	inner  *SliceSource
}

// NewStoreSource creates a Source over a stored cleaned dataset.
// If c is nil, codec.Default is used.
func NewStoreSource(store blobstore.Store, name string, c codec.Codec) *StoreSource {
	if c == nil {
		c = codec.Default
	}
	return &StoreSource{store: store, name: name, codec: c}
}

// Next returns the next record or io.EOF.
func (s *StoreSource) Next(ctx context.Context) (model.Record, error) {
	if !s.loaded {
		data, err := s.store.Get(ctx, s.name)
		if err != nil {
			return model.Record{}, fmt.Errorf("pipeline: read dataset %s: %w", s.name, err)
		}
		var records []model.Record
		if err := s.codec.Unmarshal(data, &records); err != nil {
			return model.Record{}, fmt.Errorf("pipeline: decode dataset %s: %w", s.name, err)
		}
		s.inner = NewSliceSource(records)
		s.loaded = true
	}
	return s.inner.Next(ctx)
}

// Partition splits records into n roughly equal in-memory partitions for a
// sharded scan. n is clamped to [1, len(records)] (but at least 1).
func Partition(records []model.Record, n int) []Source {
	if n < 1 {
		n = 1
	}
	if n > len(records) && len(records) > 0 {
		n = len(records)
	}

	sources := make([]Source, 0, n)
	chunk := (len(records) + n - 1) / n
	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		sources = append(sources, NewSliceSource(records[start:end]))
	}
	if len(sources) == 0 {
		sources = append(sources, NewSliceSource(nil))
	}
	return sources
}
