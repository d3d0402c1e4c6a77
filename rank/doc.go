// Package rank provides the scoring function and the total order that
// drive top-K selection.
//
// Scoring is a pure function over (id, rating, distance); the order is a
// four-level comparator (score, rating, distance, name) with an id tiebreak
// so that any two records compare deterministically.
package rank
