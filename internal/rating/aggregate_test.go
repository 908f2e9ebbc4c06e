// AngelaMos | 2026
// aggregate_test.go

package rating

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   core.Score
	}{
		{"empty", nil, 0},
		{"single", []int{4}, 4},
		{"two", []int{5, 3}, 4},
		{"thirds round down", []int{4, 4, 5}, 4.3},
		{"thirds round up", []int{2, 3, 3}, 2.7},
		{"half rounds away from zero", []int{3, 4, 4, 4}, 3.8},
		{"all ones", []int{1, 1, 1, 1, 1}, 1},
		{"all fives", []int{5, 5, 5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Average(tt.values))
		})
	}
}

func TestAverageIgnoresOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for range 50 {
		n := 1 + rng.IntN(40)
		values := make([]int, n)
		for i := range values {
			values[i] = 1 + rng.IntN(5)
		}

		want := Average(values)
		shuffled := append([]int(nil), values...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		assert.Equal(t, want, Average(shuffled), "values %v", values)
	}
}

func TestAverageStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	for range 100 {
		values := make([]int, 1+rng.IntN(20))
		for i := range values {
			values[i] = 1 + rng.IntN(5)
		}

		avg := Average(values)
		assert.GreaterOrEqual(t, avg.Float64(), 1.0)
		assert.LessOrEqual(t, avg.Float64(), 5.0)
	}
}

func TestValidValue(t *testing.T) {
	for v := -1; v <= 7; v++ {
		assert.Equal(t, v >= 1 && v <= 5, ValidValue(v), "value %d", v)
	}
}
