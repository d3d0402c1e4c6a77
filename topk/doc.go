// Package topk implements the fixed-capacity selection structure at the
// heart of the ranking pipeline.
//
// A Selector holds at most K candidates in a weakest-at-root heap. Each
// incoming record costs O(log K); resident memory stays O(K) no matter how
// long the input sequence is. Results() performs the final O(K log K) sort,
// which the heap deliberately does not maintain during the scan.
package topk
