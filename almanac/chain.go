package almanac

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/v2/maps/treemap"
	"github.com/emirpasic/gods/v2/sets/treeset"
)

var (
	// ErrMalformedChain is returned when the stages cannot be linked from the entry category.
	ErrMalformedChain = errors.New("malformed stage chain")

	// ErrDuplicateStage is returned when two stages convert from the same category.
	ErrDuplicateStage = errors.New("duplicate stage")
)

// DefaultEntry is the category every almanac starts from.
const DefaultEntry = "seed"

// Chain indexes stages by their source category.
type Chain struct {
	stages *treemap.Map[string, *Stage]
}

func NewChain(stages ...*Stage) (*Chain, error) {
	c := &Chain{
		stages: treemap.New[string, *Stage](),
	}
	for _, st := range stages {
		if prev, ok := c.stages.Get(st.source); ok {
			return nil, fmt.Errorf("chain: %s and %s: %w", prev, st, ErrDuplicateStage)
		}
		c.stages.Put(st.source, st)
	}
	return c, nil
}

// Categories returns the source categories of all stages, sorted.
func (c *Chain) Categories() []string {
	return c.stages.Keys()
}

// Resolve returns the stages in the order they apply, starting from the stage
// converting entry. It keeps following the destination of the last stage until
// no stage converts from it.
//
// A chain without a stage for entry, or one that visits a category twice, is
// malformed.
func (c *Chain) Resolve(entry string) ([]*Stage, error) {
	st, ok := c.stages.Get(entry)
	if !ok {
		return nil, fmt.Errorf("chain: no stage from %q (have %s): %w", entry, strings.Join(c.Categories(), ", "), ErrMalformedChain)
	}

	visited := treeset.New[string]()
	var ret []*Stage
	for ok {
		if visited.Contains(st.source) {
			return nil, fmt.Errorf("chain: cycle at %q: %w", st.source, ErrMalformedChain)
		}
		visited.Add(st.source)
		ret = append(ret, st)
		st, ok = c.stages.Get(st.destination)
	}
	return ret, nil
}

// Path renders resolved stages as "seed -> soil -> ...".
func Path(stages []*Stage) string {
	if len(stages) == 0 {
		return ""
	}
	names := []string{stages[0].source}
	for _, st := range stages {
		names = append(names, st.destination)
	}
	return strings.Join(names, " -> ")
}
