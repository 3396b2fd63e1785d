package almanac

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/liznear/almanac/model"
)

const sample = `seeds: 79 14 55 13

seed-to-soil map:
50 98 2
52 50 48

soil-to-fertilizer map:
0 15 37
37 52 2
39 0 15

fertilizer-to-water map:
49 53 8
0 11 42
42 0 7
57 7 4

water-to-light map:
88 18 7
18 25 70

light-to-temperature map:
45 77 23
81 45 19
68 64 13

temperature-to-humidity map:
0 69 1
1 0 69

humidity-to-location map:
60 56 37
56 93 4
`

func sampleAlmanac(t *testing.T, mode Mode, opts ...Option) *Almanac {
	t.Helper()
	doc, err := ParseString("sample", sample)
	if err != nil {
		t.Fatalf("Fail to parse sample: %v", err)
	}
	a, err := doc.Almanac(mode, DefaultEntry, opts...)
	if err != nil {
		t.Fatalf("Fail to build almanac: %v", err)
	}
	return a
}

func TestAlmanac_Lowest(t *testing.T) {
	tcs := []struct {
		name string
		mode Mode
		opts []Option
		want uint64
	}{
		{
			name: "Single",
			mode: ModeSingle,
			want: 35,
		},
		{
			name: "Ranged",
			mode: ModeRanged,
			want: 46,
		},
		{
			name: "SingleParallel",
			mode: ModeSingle,
			opts: []Option{WithWorkers(4)},
			want: 35,
		},
		{
			name: "RangedParallel",
			mode: ModeRanged,
			opts: []Option{WithWorkers(4)},
			want: 46,
		},
		{
			name: "RangedCoalesce",
			mode: ModeRanged,
			opts: []Option{WithCoalesce(true)},
			want: 46,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := sampleAlmanac(t, tc.mode, tc.opts...).Lowest()
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("Got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAlmanac_ParallelMatchesSequential(t *testing.T) {
	seq, err := sampleAlmanac(t, ModeRanged).Locations()
	if err != nil {
		t.Fatal(err)
	}
	par, err := sampleAlmanac(t, ModeRanged, WithWorkers(3)).Locations()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sorted(seq), sorted(par)) {
		t.Errorf("Got %v in parallel, want %v", par, seq)
	}
}

func TestAlmanac_TwoStages(t *testing.T) {
	a := New(
		SeedsFromIDs([]uint64{79}),
		[]*Stage{
			NewStage("a", "b", mustRule(t, 50, 98, 2), mustRule(t, 52, 50, 48)),
			NewStage("b", "c"),
		})
	got, err := a.Lowest()
	if err != nil {
		t.Fatal(err)
	}
	if got != 81 {
		t.Errorf("Got %d, want 81", got)
	}
}

func TestAlmanac_NoStages(t *testing.T) {
	a := New([]model.Interval{model.Point(7), model.Point(3)}, nil)
	got, err := a.Lowest()
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("Got %d, want 3", got)
	}
}

func TestAlmanac_Errors(t *testing.T) {
	tcs := []struct {
		name    string
		a       *Almanac
		wantErr error
	}{
		{
			name:    "NoSeeds",
			a:       New(nil, []*Stage{NewStage("a", "b", mustRule(t, 0, 0, 1))}),
			wantErr: ErrNoIntervals,
		},
		{
			name: "InvalidRule",
			a: New([]model.Interval{model.Point(1)}, []*Stage{
				NewStage("a", "b", model.ConversionRule{}),
			}),
			wantErr: model.ErrEmptyRule,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.a.Lowest()
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Got err %v, want %v", err, tc.wantErr)
			}
			if got != 0 {
				t.Errorf("Got %d with error, want 0", got)
			}
		})
	}
}

func TestLowest(t *testing.T) {
	if _, err := Lowest(nil); !errors.Is(err, ErrNoIntervals) {
		t.Errorf("Got err %v, want %v", err, ErrNoIntervals)
	}
	got, err := Lowest([]model.Interval{model.Point(math.MaxUint64), mustInterval(t, 0, 4), model.Point(2)})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("Got %d, want 0", got)
	}
}

func TestAlmanac_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := sampleAlmanac(t, ModeSingle, WithLogger(zap.New(core)))
	if _, err := a.Lowest(); err != nil {
		t.Fatal(err)
	}
	entries := logs.FilterMessage("Stage mapped").All()
	if got, want := len(entries), len(a.Stages()); got != want {
		t.Fatalf("Got %d stage logs, want %d", got, want)
	}
	// Locations of the seeds 79, 14, 55 and 13 are 82, 43, 86 and 35.
	last := entries[len(entries)-1].ContextMap()
	if got, want := last["hull"], "[35, 86]"; got != want {
		t.Errorf("Got hull %v, want %v", got, want)
	}
	if got, want := last["stage"], "humidity-to-location"; got != want {
		t.Errorf("Got stage %v, want %v", got, want)
	}
}
