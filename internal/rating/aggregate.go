// AngelaMos | 2026
// aggregate.go

package rating

import (
	"github.com/carterperez-dev/store-ratings/internal/core"
)

// Average is the arithmetic mean of values rounded to one decimal place,
// or 0 for an empty set. The result does not depend on the order of values.
func Average(values []int) core.Score {
	if len(values) == 0 {
		return 0
	}

	sum := 0
	for _, v := range values {
		sum += v
	}

	return core.RoundScore(float64(sum) / float64(len(values)))
}

// ValidValue reports whether v is an allowed star rating.
func ValidValue(v int) bool {
	return v >= core.RatingMin && v <= core.RatingMax
}
