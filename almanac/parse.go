package almanac

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"go.uber.org/multierr"

	"github.com/liznear/almanac/model"
)

// The almanac text looks like this:
//
//	seeds: 79 14 55 13
//
//	seed-to-soil map:
//	50 98 2
//	52 50 48
//
//	soil-to-fertilizer map:
//	...
//
// Every rule line is "destination source length". Line breaks carry no
// meaning, a table ends where the next header starts.
type almanacFile struct {
	Seeds  []uint64    `"seeds" ":" @Int*`
	Tables []*tableDef `@@*`
}

type tableDef struct {
	Pos lexer.Position

	Source      string     `@Ident "-" "to" "-"`
	Destination string     `@Ident "map" ":"`
	Rules       []*ruleDef `@@*`
}

type ruleDef struct {
	Pos lexer.Position

	Destination uint64 `@Int`
	Source      uint64 `@Int`
	Length      uint64 `@Int`
}

var almanacLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[-:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var almanacParser = participle.MustBuild[almanacFile](
	participle.Lexer(almanacLexer),
	participle.Elide("Whitespace"),
)

// Document is a parsed almanac: the raw seed values and the stages in the order
// they were listed.
type Document struct {
	Seeds  []uint64
	Stages []*Stage
}

// Parse reads an almanac. name is only used in error messages.
//
// Rules are validated after the whole text is parsed, and every invalid rule is
// reported, not just the first one.
func Parse(name string, r io.Reader) (*Document, error) {
	f, err := almanacParser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse: fail to parse %q: %w", name, err)
	}
	return f.document()
}

func ParseString(name, s string) (*Document, error) {
	f, err := almanacParser.ParseString(name, s)
	if err != nil {
		return nil, fmt.Errorf("parse: fail to parse %q: %w", name, err)
	}
	return f.document()
}

func (f *almanacFile) document() (*Document, error) {
	doc := &Document{
		Seeds: f.Seeds,
	}
	var errs error
	for _, t := range f.Tables {
		var rules []model.ConversionRule
		for _, rd := range t.Rules {
			rule, err := model.NewConversionRule(rd.Destination, rd.Source, rd.Length)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", rd.Pos, err))
				continue
			}
			rules = append(rules, rule)
		}
		doc.Stages = append(doc.Stages, NewStage(t.Source, t.Destination, rules...))
	}
	if errs != nil {
		return nil, fmt.Errorf("parse: invalid rules: %w", errs)
	}
	return doc, nil
}

// Chain indexes the stages of the document.
func (d *Document) Chain() (*Chain, error) {
	return NewChain(d.Stages...)
}

// Almanac links the stages starting from entry and reads the seeds according to
// mode.
func (d *Document) Almanac(mode Mode, entry string, opts ...Option) (*Almanac, error) {
	chain, err := d.Chain()
	if err != nil {
		return nil, err
	}
	stages, err := chain.Resolve(entry)
	if err != nil {
		return nil, err
	}
	seeds, err := mode.Seeds(d.Seeds)
	if err != nil {
		return nil, err
	}
	return New(seeds, stages, opts...), nil
}
