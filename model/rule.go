package model

import (
	"errors"
	"fmt"
)

// ErrEmptyRule is returned for a rule mapping zero ids.
var ErrEmptyRule = errors.New("rule has zero length")

// ConversionRule maps the source domain [source, source+length-1] onto
// [destination, destination+length-1] by a constant offset.
//
// The upper bound of the source domain saturates at math.MaxUint64, so a rule
// close to the end of the id space covers everything up to the last id.
type ConversionRule struct {
	destination uint64
	source      uint64
	length      uint64
}

// NewConversionRule returns a rule in the order the almanac lists them:
// destination start, source start, length.
func NewConversionRule(destination, source, length uint64) (ConversionRule, error) {
	r := ConversionRule{destination, source, length}
	if length == 0 {
		return ConversionRule{}, fmt.Errorf("rule %s: %w", r, ErrEmptyRule)
	}
	if _, err := checkedAdd(destination, r.sourceEnd()-source); err != nil {
		return ConversionRule{}, fmt.Errorf("rule %s: destination out of range: %w", r, err)
	}
	return r, nil
}

func (r ConversionRule) sourceEnd() uint64 {
	return saturatingAdd(r.source, r.length-1)
}

// Source returns the ids the rule applies to, or nil for an empty rule.
func (r ConversionRule) Source() *Interval {
	if r.length == 0 {
		return nil
	}
	return &Interval{r.source, r.sourceEnd()}
}

// Destination returns the ids the source domain is mapped to. It is nil for an
// empty rule and for a rule whose destination would pass math.MaxUint64.
func (r ConversionRule) Destination() *Interval {
	if r.length == 0 {
		return nil
	}
	end, err := checkedAdd(r.destination, r.sourceEnd()-r.source)
	if err != nil {
		return nil
	}
	return &Interval{r.destination, end}
}

func (r ConversionRule) String() string {
	return fmt.Sprintf("%d %d %d", r.destination, r.source, r.length)
}

// Split is the result of splitting an interval against a rule. Missing pieces
// are nil.
//
// Below and Above are unmapped, Overlap has already been translated to the
// destination domain.
type Split struct {
	Below   *Interval
	Overlap *Interval
	Above   *Interval
}

// Unmapped returns the pieces the rule did not translate.
func (s Split) Unmapped() []Interval {
	var ret []Interval
	if s.Below != nil {
		ret = append(ret, *s.Below)
	}
	if s.Above != nil {
		ret = append(ret, *s.Above)
	}
	return ret
}

// Split cuts in at the boundaries of the rule's source domain.
//
//	in:          |-------------------------|
//	source:            |-----------|
//	             below    overlap     above
//
// The pieces never overlap each other, and together with the overlap mapped
// back they are exactly in.
func (r ConversionRule) Split(in Interval) (Split, error) {
	if r.length == 0 {
		return Split{}, ErrEmptyRule
	}
	srcEnd := r.sourceEnd()

	var s Split
	if in.start < r.source {
		// r.source > 0 here, so r.source-1 does not wrap.
		s.Below = &Interval{in.start, min(r.source-1, in.end)}
	}
	if in.end >= r.source && in.start <= srcEnd {
		lo := max(in.start, r.source)
		hi := min(in.end, srcEnd)
		start, err := checkedAdd(r.destination, lo-r.source)
		if err != nil {
			return Split{}, fmt.Errorf("rule %s: fail to translate %s: %w", r, in, err)
		}
		end, err := checkedAdd(r.destination, hi-r.source)
		if err != nil {
			return Split{}, fmt.Errorf("rule %s: fail to translate %s: %w", r, in, err)
		}
		s.Overlap = &Interval{start, end}
	}
	if in.end > srcEnd {
		// srcEnd < in.end, so srcEnd+1 does not wrap.
		s.Above = &Interval{max(srcEnd+1, in.start), in.end}
	}
	return s, nil
}
