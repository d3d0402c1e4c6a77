package rank

import (
	"fmt"
	"math"

	"github.com/hupe1980/rankgo/model"
)

// ErrNonFiniteInput indicates that a record reached the scorer with a
// non-finite rating or distance. This is an upstream validation contract
// violation; the scorer surfaces it instead of letting NaN/Inf corrupt the
// ranking order.
type ErrNonFiniteInput struct {
	Record model.Record
}

func (e *ErrNonFiniteInput) Error() string {
	return fmt.Sprintf("non-finite input on %s: rating=%v distance=%v",
		e.Record, e.Record.Rating, e.Record.Distance)
}

// Score computes the ranking score of a record, rounded to 2 decimal places.
//
// The formula is
//
//	raw   = (rating*10 - distance*0.5 + sin(id)*2) * 100 + 0.5
//	score = round(raw/100, 2)
//
// sin(id) takes the integer id as a radian angle. This is a deliberate
// pseudo-random perturbation of the score, not a geometric quantity.
//
// Score is pure and deterministic: the same (id, rating, distance) triple
// always yields the same score.
func Score(r model.Record) (float64, error) {
	if !isFinite(r.Rating) || !isFinite(r.Distance) {
		return 0, &ErrNonFiniteInput{Record: r}
	}

	raw := (r.Rating*10-r.Distance*0.5+math.Sin(float64(r.ID))*2)*100 + 0.5

	return round2(raw / 100), nil
}

// ScoreRecord computes the score and attaches it to the record.
func ScoreRecord(r model.Record) (model.ScoredRecord, error) {
	score, err := Score(r)
	if err != nil {
		return model.ScoredRecord{}, err
	}
	return model.ScoredRecord{Record: r, Score: score}, nil
}

// round2 rounds to 2 decimal places with halves away from zero.
// math.Round has the same policy but goes through the scaled value
// explicitly so half-way inputs match the reference outputs exactly.
func round2(x float64) float64 {
	scaled := x * 100
	if scaled >= 0 {
		return math.Floor(scaled+0.5) / 100
	}
	return math.Ceil(scaled-0.5) / 100
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
