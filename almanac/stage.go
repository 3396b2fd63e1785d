package almanac

import (
	"fmt"

	"github.com/liznear/almanac/model"
)

// Stage is one table of the almanac, e.g. "seed-to-soil". It converts ids of
// the source category to ids of the destination category.
//
// Rules of a stage must not overlap in their source domain. This is not
// checked: whichever rule matches an id first wins.
type Stage struct {
	source      string
	destination string
	rules       []model.ConversionRule
}

func NewStage(source, destination string, rules ...model.ConversionRule) *Stage {
	return &Stage{
		source:      source,
		destination: destination,
		rules:       rules,
	}
}

func (s *Stage) Source() string {
	return s.source
}

func (s *Stage) Destination() string {
	return s.destination
}

func (s *Stage) Rules() []model.ConversionRule {
	return s.rules
}

func (s *Stage) String() string {
	return s.source + "-to-" + s.destination
}

// Map converts all intervals through the stage.
//
// Rules act as a sequence of filters. Every interval still in working is split
// against the current rule. The translated overlap is done: it is a destination
// id now and must not be matched by another rule of this stage. The unmapped
// below and above pieces go back to working and meet the next rule. Whatever is
// left in working after the last rule matched nothing and maps to itself.
//
// The total length of the output always equals the total length of the input.
func (s *Stage) Map(intervals []model.Interval) ([]model.Interval, error) {
	working := make([]model.Interval, len(intervals))
	copy(working, intervals)

	var finished []model.Interval
	for _, rule := range s.rules {
		var unmapped []model.Interval
		for _, in := range working {
			split, err := rule.Split(in)
			if err != nil {
				return nil, fmt.Errorf("stage %s: fail to split %s: %w", s, in, err)
			}
			if split.Overlap != nil {
				finished = append(finished, *split.Overlap)
			}
			unmapped = append(unmapped, split.Unmapped()...)
		}
		working = unmapped
	}
	return append(finished, working...), nil
}

// MapInterval converts a single interval through the stage.
func (s *Stage) MapInterval(in model.Interval) ([]model.Interval, error) {
	return s.Map([]model.Interval{in})
}
