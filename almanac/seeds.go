package almanac

import (
	"errors"
	"fmt"

	"github.com/liznear/almanac/model"
)

// ErrOddSeedCount is returned when ranged seeds are not given as pairs.
var ErrOddSeedCount = errors.New("odd number of seed values")

// Mode is how the numbers on the seeds line are read.
type Mode string

const (
	// ModeSingle reads every number as one seed id.
	ModeSingle Mode = "single"

	// ModeRanged reads the numbers as (start, length) pairs.
	ModeRanged Mode = "ranged"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSingle, ModeRanged:
		return m, nil
	}
	return "", fmt.Errorf("unknown seed mode %q, want %q or %q", s, ModeSingle, ModeRanged)
}

// Seeds converts the values of the seeds line according to the mode.
func (m Mode) Seeds(values []uint64) ([]model.Interval, error) {
	switch m {
	case ModeSingle:
		return SeedsFromIDs(values), nil
	case ModeRanged:
		return SeedsFromPairs(values)
	}
	return nil, fmt.Errorf("unknown seed mode %q", string(m))
}

// SeedsFromIDs returns one single-id interval per seed.
func SeedsFromIDs(ids []uint64) []model.Interval {
	ret := make([]model.Interval, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, model.Point(id))
	}
	return ret
}

// SeedsFromPairs reads values as (start, length) pairs.
func SeedsFromPairs(values []uint64) ([]model.Interval, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("seeds: %d values: %w", len(values), ErrOddSeedCount)
	}
	ret := make([]model.Interval, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		in, err := model.FromStartLength(values[i], values[i+1])
		if err != nil {
			return nil, fmt.Errorf("seeds: fail to read pair %d: %w", i/2, err)
		}
		ret = append(ret, in)
	}
	return ret, nil
}
