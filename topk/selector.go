package topk

import (
	"errors"
	"sort"

	"github.com/hupe1980/rankgo/model"
	"github.com/hupe1980/rankgo/rank"
)

// ErrInvalidK is returned when the selection capacity is not positive.
var ErrInvalidK = errors.New("k must be positive")

// Selector retains the current top-K candidates of a single scan.
//
// Internally it is a min-oriented heap over the ranking order: the root is
// the weakest held candidate, so admission is a single O(1) comparison
// against the root and eviction a single O(log K) rebalance. "Weakest" is
// defined by rank.Weaker, not by numeric score alone.
//
// A Selector is exclusively owned by its scan; it is not safe for
// concurrent use. Sharded scans run one Selector per partition and merge
// through another Selector (see pipeline.Ranker).
type Selector struct {
	capacity int
	items    []model.ScoredRecord // value-based storage, heap-ordered
}

// NewSelector creates a Selector with the given capacity.
// Capacity must be positive; this is checked before any record is accepted.
func NewSelector(capacity int) (*Selector, error) {
	if capacity <= 0 {
		return nil, ErrInvalidK
	}
	return &Selector{
		capacity: capacity,
		items:    make([]model.ScoredRecord, 0, capacity),
	}, nil
}

// Capacity returns the configured K.
func (s *Selector) Capacity() int { return s.capacity }

// Len returns the number of candidates currently held. Never exceeds K.
func (s *Selector) Len() int { return len(s.items) }

// Weakest returns the weakest currently-held candidate, the first to be
// evicted when a stronger record arrives.
func (s *Selector) Weakest() (model.ScoredRecord, bool) {
	if len(s.items) == 0 {
		return model.ScoredRecord{}, false
	}
	return s.items[0], true
}

// Offer presents a record for admission and reports whether it was kept.
//
// Below capacity the record is inserted unconditionally. At capacity the
// record replaces the root only if it is strictly stronger; otherwise it is
// discarded — it cannot be in the final top-K.
func (s *Selector) Offer(r model.ScoredRecord) bool {
	if len(s.items) < s.capacity {
		s.items = append(s.items, r)
		s.siftUp(len(s.items) - 1)
		return true
	}

	if !rank.Weaker(s.items[0], r) {
		return false
	}

	s.items[0] = r
	s.siftDown(0)
	return true
}

// Results sorts the survivors strongest-first and returns them as a fresh
// ResultSet. The selector's own storage is left untouched, so a scan that
// was cancelled early can still be finalized and inspected.
func (s *Selector) Results() model.ResultSet {
	out := make(model.ResultSet, len(s.items))
	copy(out, s.items)
	sort.Slice(out, func(i, j int) bool {
		return rank.Compare(out[i], out[j]) > 0
	})
	return out
}

// Reset clears the selector for reuse with the same capacity.
func (s *Selector) Reset() {
	s.items = s.items[:0]
}

func (s *Selector) less(i, j int) bool {
	return rank.Weaker(s.items[i], s.items[j])
}

func (s *Selector) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !s.less(i, p) {
			return
		}
		s.items[i], s.items[p] = s.items[p], s.items[i]
		i = p
	}
}

func (s *Selector) siftDown(i int) {
	n := len(s.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		weakest := l
		if r := l + 1; r < n && s.less(r, l) {
			weakest = r
		}
		if !s.less(weakest, i) {
			return
		}
		s.items[i], s.items[weakest] = s.items[weakest], s.items[i]
		i = weakest
	}
}
