package model

import "fmt"

// ID is the dataset-assigned identifier of a record.
// Uniqueness is not enforced here; duplicate ids are treated as distinct
// entries by the ranking pipeline.
type ID int64

// Record represents a single validated restaurant entry.
// A Record is immutable once constructed.
type Record struct {
	ID       ID      `json:"id"`
	Name     string  `json:"restaurant_name"`
	Rating   float64 `json:"rating"`
	Distance float64 `json:"distance_from_me"`
}

// String returns a short representation for logs and error context.
func (r Record) String() string {
	return fmt.Sprintf("Record(%d:%q)", r.ID, r.Name)
}

// ScoredRecord is a Record with its derived ranking score attached.
// The score is computed exactly once, already rounded to 2 decimal places,
// and never recomputed during selection or sorting.
type ScoredRecord struct {
	Record
	Score float64 `json:"score"`
}

// ResultSet is the terminal artifact of a ranking scan: at most K scored
// records in final ranking order, strongest first. It is created only after
// the source is exhausted and never mutated afterward.
type ResultSet []ScoredRecord

// Len returns the number of records in the result set.
func (rs ResultSet) Len() int { return len(rs) }
