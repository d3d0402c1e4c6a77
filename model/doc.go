// Package model defines the core types shared by both pipelines.
//
// # Data Types
//
//   - Record: a validated restaurant entry (id, name, rating, distance)
//   - ScoredRecord: a Record plus its derived ranking score
//   - ResultSet: the ordered, final top-K selection
//
// JSON field names follow the upstream dataset format
// (restaurant_name, distance_from_me), so records round-trip through the
// artifact store and the grading service without translation.
package model
