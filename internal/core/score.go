// AngelaMos | 2026
// score.go

package core

import (
	"math"
	"strconv"
)

// Score is an average star rating. It always encodes with one decimal
// place, so 4 is written as 4.0.
type Score float64

// RoundScore rounds half away from zero to one decimal place.
func RoundScore(v float64) Score {
	return Score(math.Round(v*10) / 10)
}

func (s Score) Float64() float64 {
	return float64(s)
}

func (s Score) String() string {
	return strconv.FormatFloat(float64(s), 'f', 1, 64)
}

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Score) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*s = Score(v)
	return nil
}
