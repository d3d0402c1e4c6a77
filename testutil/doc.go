// Package testutil provides deterministic helpers for tests: a seeded,
// thread-safe RNG and generators for synthetic restaurant records within
// the documented domain ranges.
package testutil
