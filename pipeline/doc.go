// Package pipeline wires the ranking pipeline: record source → scorer →
// bounded selector → final sorter → result sink.
//
// A Source yields cleaned records one at a time; the scan holds at most K
// candidates regardless of how many records the source produces. Sharded
// scans run one selector per partition and merge the partial results
// through a final selector of the same capacity, which yields exactly the
// single-scan answer because the true top-K is always contained in the
// union of per-partition top-Ks.
package pipeline
