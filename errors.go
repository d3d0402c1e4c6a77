package rankgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rankgo/model"
	"github.com/hupe1980/rankgo/rank"
	"github.com/hupe1980/rankgo/topk"
)

var (
	// ErrInvalidK is returned when the configured top-K cutoff is not
	// positive. Reported before any record is processed.
	ErrInvalidK = topk.ErrInvalidK

	// ErrInvalidInput is returned when a record that cannot be scored
	// reaches the ranking pipeline, which means the upstream validation
	// contract was violated.
	ErrInvalidInput = errors.New("invalid input record")
)

// ErrUnscorableRecord carries the offending record when scoring fails.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrUnscorableRecord struct {
	Record model.Record
	cause  error
}

func (e *ErrUnscorableRecord) Error() string {
	return fmt.Sprintf("unscorable record %s", e.Record)
}

func (e *ErrUnscorableRecord) Unwrap() error { return e.cause }

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *ErrUnscorableRecord) Is(target error) bool { return target == ErrInvalidInput }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var nf *rank.ErrNonFiniteInput
	if errors.As(err, &nf) {
		return &ErrUnscorableRecord{Record: nf.Record, cause: err}
	}

	return err
}
