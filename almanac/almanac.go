package almanac

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/liznear/almanac/model"
)

// ErrNoIntervals is returned when there is nothing to take the minimum of.
var ErrNoIntervals = errors.New("no intervals")

// Almanac is the pipeline of stages applied to a set of seeds.
//
// An Almanac is not modified after construction. It is safe to call Lowest
// and Locations concurrently.
type Almanac struct {
	seeds  []model.Interval
	stages []*Stage
	cfg    Config
}

// New returns an almanac applying stages, in order, to seeds. The stages are
// expected to be already linked, see Chain.Resolve.
func New(seeds []model.Interval, stages []*Stage, opts ...Option) *Almanac {
	cfg := Config{
		Logger:  zap.NewNop(),
		Workers: 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Almanac{
		seeds:  seeds,
		stages: stages,
		cfg:    cfg,
	}
}

func (a *Almanac) Seeds() []model.Interval {
	return a.seeds
}

func (a *Almanac) Stages() []*Stage {
	return a.stages
}

// Locations folds the seeds through every stage. The output of one stage is the
// input of the next.
func (a *Almanac) Locations() ([]model.Interval, error) {
	values := a.seeds
	for i, st := range a.stages {
		in := len(values)
		var err error
		values, err = a.mapStage(st, values)
		if err != nil {
			return nil, fmt.Errorf("almanac: fail to map stage %d (%s): %w", i, st, err)
		}
		if a.cfg.Coalesce {
			values = model.Coalesce(values)
		}
		fields := []zap.Field{
			zap.Stringer("stage", st),
			zap.Int("rules", len(st.rules)),
			zap.Int("in", in),
			zap.Int("out", len(values)),
		}
		if h := model.Hull(values); h != nil {
			fields = append(fields, zap.Stringer("hull", h))
		}
		a.cfg.Logger.Debug("Stage mapped", fields...)
	}
	return values, nil
}

// Lowest returns the lowest id reachable at the end of the chain. The start of an
// interval is its lowest id, so only starts are compared.
func (a *Almanac) Lowest() (uint64, error) {
	values, err := a.Locations()
	if err != nil {
		return 0, err
	}
	return Lowest(values)
}

// Lowest returns the minimum start over intervals.
func Lowest(intervals []model.Interval) (uint64, error) {
	if len(intervals) == 0 {
		return 0, ErrNoIntervals
	}
	lowest := intervals[0].Start()
	for _, i := range intervals[1:] {
		lowest = min(lowest, i.Start())
	}
	return lowest, nil
}

// mapStage maps values through st. With more than one worker, every interval is
// mapped on its own goroutine. Results are concatenated in input order, so the
// output is the same as the sequential one.
func (a *Almanac) mapStage(st *Stage, values []model.Interval) ([]model.Interval, error) {
	if a.cfg.Workers <= 1 || len(values) <= 1 {
		return st.Map(values)
	}

	results := make([][]model.Interval, len(values))
	var g errgroup.Group
	g.SetLimit(a.cfg.Workers)
	for i, in := range values {
		i, in := i, in
		g.Go(func() error {
			out, err := st.MapInterval(in)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ret []model.Interval
	for _, r := range results {
		ret = append(ret, r...)
	}
	return ret, nil
}

// Config tunes how an Almanac evaluates its stages.
type Config struct {
	Logger *zap.Logger

	// Workers is the max number of intervals mapped concurrently within a stage.
	Workers int

	// Coalesce merges overlapping and adjacent intervals after every stage.
	Coalesce bool
}

type Option func(*Config)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithWorkers maps up to n intervals of a stage concurrently. n <= 1 maps them
// sequentially.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithCoalesce merges overlapping and adjacent intervals after every stage. The
// lowest id is unchanged, but the number of intervals carried forward shrinks.
func WithCoalesce(coalesce bool) Option {
	return func(c *Config) {
		c.Coalesce = coalesce
	}
}
