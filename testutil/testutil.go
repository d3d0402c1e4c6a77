package testutil

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/hupe1980/rankgo/model"
	"github.com/hupe1980/rankgo/validate"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// uniformIn returns a pseudo-random number in [minVal, maxVal).
// Caller must hold the lock.
func (r *RNG) uniformIn(minVal, maxVal float64) float64 {
	return minVal + r.rand.Float64()*(maxVal-minVal)
}

// Name generates a random well-formed restaurant name of n letters.
func (r *RNG) Name(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(letters[r.rand.Intn(len(letters))])
	}
	return b.String()
}

// Record generates one well-formed record with the given id.
func (r *RNG) Record(id int64) model.Record {
	name := r.Name(8)

	r.mu.Lock()
	defer r.mu.Unlock()
	return model.Record{
		ID:       model.ID(id),
		Name:     name,
		Rating:   r.uniformIn(validate.MinRating, validate.MaxRating),
		Distance: r.uniformIn(validate.MinDistance, validate.MaxDistance),
	}
}

// Records generates num well-formed records with sequential ids.
func (r *RNG) Records(num int) []model.Record {
	records := make([]model.Record, num)
	for i := range records {
		records[i] = r.Record(int64(i))
	}
	return records
}
