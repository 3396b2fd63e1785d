// Command almanac finds the lowest id reachable through a chain of almanac
// conversion tables.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/liznear/almanac/almanac"
	"github.com/liznear/almanac/config"
	"github.com/liznear/almanac/utils"
)

const version = "0.1.0"

// Globals are the flags shared by all commands.
type Globals struct {
	Config string `name:"config" short:"c" help:"YAML config file" type:"path"`
	Debug  bool   `help:"Enable debug logging"`
}

// CLI defines the command-line interface for almanac.
type CLI struct {
	Globals

	Lowest  LowestCmd  `cmd:"" default:"withargs" help:"Print the lowest id at the end of the chain"`
	Chain   ChainCmd   `cmd:"" help:"Print the resolved stage chain"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// InputFlags select and tune the almanac to load. Zero values keep the
// configured setting.
type InputFlags struct {
	Input    string `arg:"" optional:"" default:"-" help:"Almanac file, - for stdin"`
	Mode     string `short:"m" help:"Seed mode: single or ranged"`
	Entry    string `short:"e" help:"Category the chain starts from"`
	Workers  int    `short:"w" help:"Max intervals mapped concurrently"`
	Coalesce bool   `help:"Merge overlapping intervals between stages"`
}

func (f *InputFlags) apply(cfg *config.Config) {
	if f.Mode != "" {
		cfg.Mode = f.Mode
	}
	if f.Entry != "" {
		cfg.Entry = f.Entry
	}
	if f.Workers != 0 {
		cfg.Workers = f.Workers
	}
	if f.Coalesce {
		cfg.Coalesce = true
	}
}

// load reads the config and the input, and builds the almanac.
func (f *InputFlags) load(g *Globals, stdin io.Reader, logger *zap.Logger) (*almanac.Almanac, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := almanac.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	r, err := utils.OpenInput(f.Input, stdin)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	doc, err := almanac.Parse(utils.InputName(f.Input), r)
	if err != nil {
		return nil, err
	}

	opts := append(cfg.Options(), almanac.WithLogger(logger))
	a, err := doc.Almanac(mode, cfg.Entry, opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Almanac loaded",
		zap.String("input", utils.InputName(f.Input)),
		zap.String("mode", string(mode)),
		zap.String("chain", almanac.Path(a.Stages())),
		zap.Int("seeds", len(a.Seeds())))
	return a, nil
}

// LowestCmd prints the lowest reachable id.
type LowestCmd struct {
	InputFlags
}

func (c *LowestCmd) Run(g *Globals) error {
	return withLogger(g, func(logger *zap.Logger) error {
		return c.run(g, os.Stdin, os.Stdout, logger)
	})
}

func (c *LowestCmd) run(g *Globals, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	a, err := c.load(g, stdin, logger)
	if err != nil {
		return err
	}
	lowest, err := a.Lowest()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, lowest)
	return err
}

// ChainCmd prints the stages in the order they apply.
type ChainCmd struct {
	InputFlags

	Rules bool `help:"Also print the domains of every rule"`
}

func (c *ChainCmd) Run(g *Globals) error {
	return withLogger(g, func(logger *zap.Logger) error {
		return c.run(g, os.Stdin, os.Stdout, logger)
	})
}

func (c *ChainCmd) run(g *Globals, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	a, err := c.load(g, stdin, logger)
	if err != nil {
		return err
	}
	for _, st := range a.Stages() {
		if _, err := fmt.Fprintf(stdout, "%s\t%d rules\n", st, len(st.Rules())); err != nil {
			return err
		}
		if !c.Rules {
			continue
		}
		for _, r := range st.Rules() {
			if _, err := fmt.Fprintf(stdout, "\t%s -> %s\n", r.Source(), r.Destination()); err != nil {
				return err
			}
		}
	}
	_, err = fmt.Fprintln(stdout, almanac.Path(a.Stages()))
	return err
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("almanac version %s\n", version)
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// debug reports whether debug logging is on, from --debug or from the config.
func (g *Globals) debug() (bool, error) {
	if g.Debug {
		return true, nil
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return false, err
	}
	return cfg.Debug, nil
}

func withLogger(g *Globals, f func(*zap.Logger) error) error {
	debug, err := g.debug()
	if err != nil {
		return err
	}
	logger, err := newLogger(debug)
	if err != nil {
		return fmt.Errorf("fail to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	return f(logger)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("almanac"),
		kong.Description("Find the lowest id reachable through almanac conversion tables"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
