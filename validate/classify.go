package validate

import (
	"math"
	"regexp"

	"github.com/hupe1980/rankgo/model"
)

// Domain ranges for well-formed records.
const (
	MinRating   = 1.00
	MaxRating   = 10.00
	MinDistance = 10.00
	MaxDistance = 1000.00
)

var namePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

// Classify decides whether a raw record is well-formed and, if so, returns
// it as a typed Record.
//
// A record is well-formed iff:
//   - id is a non-negative integer (a JSON number with no fractional part)
//   - restaurant_name is a non-empty string of alphabetic characters and
//     spaces only
//   - rating is a number in [1.00, 10.00]
//   - distance_from_me is a number in [10.00, 1000.00]
func Classify(raw map[string]any) (model.Record, bool) {
	id, ok := intField(raw, "id")
	if !ok || id < 0 {
		return model.Record{}, false
	}

	name, ok := raw["restaurant_name"].(string)
	if !ok || name == "" || !namePattern.MatchString(name) {
		return model.Record{}, false
	}

	rating, ok := numField(raw, "rating")
	if !ok || rating < MinRating || rating > MaxRating {
		return model.Record{}, false
	}

	distance, ok := numField(raw, "distance_from_me")
	if !ok || distance < MinDistance || distance > MaxDistance {
		return model.Record{}, false
	}

	return model.Record{
		ID:       model.ID(id),
		Name:     name,
		Rating:   rating,
		Distance: distance,
	}, true
}

func numField(raw map[string]any, key string) (float64, bool) {
	switch v := raw[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func intField(raw map[string]any, key string) (int64, bool) {
	switch v := raw[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
