package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rankgo/model"
)

func TestClassify_WellFormed(t *testing.T) {
	raw := map[string]any{
		"id":               float64(12),
		"restaurant_name":  "Cuisine Delight",
		"rating":           9.2,
		"distance_from_me": 120.0,
	}

	rec, ok := Classify(raw)
	require.True(t, ok)
	assert.Equal(t, model.Record{ID: 12, Name: "Cuisine Delight", Rating: 9.2, Distance: 120.0}, rec)
}

func TestClassify_Rejects(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"id":               float64(1),
			"restaurant_name":  "Fine Place",
			"rating":           5.0,
			"distance_from_me": 100.0,
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing id", func(m map[string]any) { delete(m, "id") }},
		{"string id", func(m map[string]any) { m["id"] = "1" }},
		{"fractional id", func(m map[string]any) { m["id"] = 1.5 }},
		{"negative id", func(m map[string]any) { m["id"] = float64(-1) }},
		{"missing name", func(m map[string]any) { delete(m, "restaurant_name") }},
		{"empty name", func(m map[string]any) { m["restaurant_name"] = "" }},
		{"numeric name", func(m map[string]any) { m["restaurant_name"] = "Caf3" }},
		{"punctuated name", func(m map[string]any) { m["restaurant_name"] = "Joe's Diner" }},
		{"non-string name", func(m map[string]any) { m["restaurant_name"] = 42.0 }},
		{"missing rating", func(m map[string]any) { delete(m, "rating") }},
		{"rating too low", func(m map[string]any) { m["rating"] = 0.99 }},
		{"rating too high", func(m map[string]any) { m["rating"] = 10.01 }},
		{"string rating", func(m map[string]any) { m["rating"] = "9.2" }},
		{"missing distance", func(m map[string]any) { delete(m, "distance_from_me") }},
		{"distance too low", func(m map[string]any) { m["distance_from_me"] = 9.99 }},
		{"distance too high", func(m map[string]any) { m["distance_from_me"] = 1000.01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base()
			tt.mutate(raw)
			_, ok := Classify(raw)
			assert.False(t, ok)
		})
	}
}

func TestClassify_BoundaryValues(t *testing.T) {
	for _, tc := range []struct {
		rating, distance float64
	}{
		{1.00, 10.00},
		{10.00, 1000.00},
	} {
		raw := map[string]any{
			"id":               float64(1),
			"restaurant_name":  "Edge Case",
			"rating":           tc.rating,
			"distance_from_me": tc.distance,
		}
		_, ok := Classify(raw)
		assert.True(t, ok, "rating=%v distance=%v", tc.rating, tc.distance)
	}
}

func TestClassify_IntegerRating(t *testing.T) {
	// JSON integers decode as float64, but typed decoders may hand over
	// ints; both count as numeric.
	raw := map[string]any{
		"id":               int64(3),
		"restaurant_name":  "Whole Numbers",
		"rating":           int64(7),
		"distance_from_me": int64(500),
	}
	rec, ok := Classify(raw)
	require.True(t, ok)
	assert.Equal(t, 7.0, rec.Rating)
}
