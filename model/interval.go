package model

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/emirpasic/gods/v2/sets/treeset"
)

var (
	// ErrInvalidInterval is returned when an interval would have start > end.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrOverflow is returned when a bound does not fit in an uint64.
	ErrOverflow = errors.New("uint64 overflow")
)

// Interval is a closed range of ids [start, end]. Both ends are inclusive, so a
// single id is represented by an interval with start == end.
//
// Interval is a value type. Operations never modify an Interval in place; they
// return new ones.
type Interval struct {
	start uint64
	end   uint64
}

// NewInterval returns [start, end].
func NewInterval(start, end uint64) (Interval, error) {
	if start > end {
		return Interval{}, fmt.Errorf("interval: [%d, %d]: %w", start, end, ErrInvalidInterval)
	}
	return Interval{start, end}, nil
}

// Point returns the interval containing only v.
func Point(v uint64) Interval {
	return Interval{v, v}
}

// FromStartLength returns [start, start+length-1].
func FromStartLength(start, length uint64) (Interval, error) {
	if length == 0 {
		return Interval{}, fmt.Errorf("interval: start %d with zero length: %w", start, ErrInvalidInterval)
	}
	end, err := checkedAdd(start, length-1)
	if err != nil {
		return Interval{}, fmt.Errorf("interval: start %d, length %d: %w", start, length, err)
	}
	return Interval{start, end}, nil
}

func (i Interval) Start() uint64 {
	return i.start
}

func (i Interval) End() uint64 {
	return i.end
}

// Len returns the number of ids in the interval. The full uint64 domain has one
// more id than an uint64 can count, so Len saturates at math.MaxUint64.
func (i Interval) Len() uint64 {
	return saturatingAdd(i.end-i.start, 1)
}

func (i Interval) Contains(v uint64) bool {
	return i.start <= v && v <= i.end
}

// Overlaps reports whether i and o share at least one id.
func (i Interval) Overlaps(o Interval) bool {
	noOverlap := i.end < o.start || i.start > o.end
	return !noOverlap
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d, %d]", i.start, i.end)
}

// Compare orders intervals lexicographically on (start, end).
func Compare(a, b Interval) int {
	switch {
	case a.start < b.start:
		return -1
	case a.start > b.start:
		return 1
	case a.end < b.end:
		return -1
	case a.end > b.end:
		return 1
	}
	return 0
}

// Hull returns the smallest interval covering all the given intervals, or nil if
// there are none.
func Hull(intervals []Interval) *Interval {
	if len(intervals) == 0 {
		return nil
	}
	h := intervals[0]
	for _, i := range intervals[1:] {
		h.start = min(h.start, i.start)
		h.end = max(h.end, i.end)
	}
	return &h
}

// Coalesce returns the union of the given intervals as a sorted list of disjoint
// intervals. Overlapping and adjacent intervals are merged into one.
//
// The input is first put into a treeset so that duplicates are dropped and the
// intervals are visited in (start, end) order. Then one sweep is enough: an
// interval either extends the current one or starts a new one.
func Coalesce(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := treeset.NewWith[Interval](Compare)
	sorted.Add(intervals...)

	var ret []Interval
	iter := sorted.Iterator()
	for iter.Next() {
		cur := iter.Value()
		if n := len(ret); n > 0 && cur.start <= saturatingAdd(ret[n-1].end, 1) {
			ret[n-1].end = max(ret[n-1].end, cur.end)
			continue
		}
		ret = append(ret, cur)
	}
	return ret
}

// TotalLen returns the sum of Len over all intervals, saturating at
// math.MaxUint64.
func TotalLen(intervals []Interval) uint64 {
	var total uint64
	for _, i := range intervals {
		total = saturatingAdd(total, i.Len())
	}
	return total
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%d + %d: %w", a, b, ErrOverflow)
	}
	return sum, nil
}

func saturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}
