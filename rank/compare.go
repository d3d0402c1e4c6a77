package rank

import (
	"strings"

	"github.com/hupe1980/rankgo/model"
)

// Compare defines the total order used for admission and final sorting.
// It returns a negative value if a is weaker than b, a positive value if a
// is stronger, and 0 only when every compared attribute matches.
//
// Tie-break levels, each applied only on exact equality of the previous one:
//
//  1. score    — higher is stronger
//  2. rating   — higher is stronger
//  3. distance — higher is stronger (inherited contract: despite the field
//     name, a larger distance ranks stronger at this level)
//  4. name     — lexicographically earlier (byte order) is stronger
//  5. id       — lower is stronger (residual tiebreak; keeps fully tied
//     records deterministic, including across sharded scans)
func Compare(a, b model.ScoredRecord) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return 1
		}
		return -1
	}
	if a.Rating != b.Rating {
		if a.Rating > b.Rating {
			return 1
		}
		return -1
	}
	if a.Distance != b.Distance {
		if a.Distance > b.Distance {
			return 1
		}
		return -1
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return -c
	}
	if a.ID != b.ID {
		if a.ID < b.ID {
			return 1
		}
		return -1
	}
	return 0
}

// Weaker reports whether a is strictly weaker than b. The bounded selector
// keeps its weakest candidate at the heap root using this predicate.
func Weaker(a, b model.ScoredRecord) bool {
	return Compare(a, b) < 0
}
