package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"braces.dev/errtrace"
	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/codefig/internal/flagvalue"
	"go.abhg.dev/codefig/internal/transform"
	"go.abhg.dev/codefig/internal/validate"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// _envPrefix is the prefix for environment variables
// that set flags: -no-cache is CODEFIG_NO_CACHE.
const _envPrefix = "CODEFIG"

// params holds all arguments for codefig.
type params struct {
	version bool
	help    Help

	ConfigFile string
	Debug      flagvalue.FileSwitch

	Language   string
	LightTheme string
	DarkTheme  string
	Caption    bool

	Notation string
	Lines    []lineRange

	// StartLine is nil if -start wasn't set.
	StartLine     *int
	NoLineNumbers bool
	NoLabel       bool
	Wrap          bool
	Trim          bool

	Document  bool
	Vars      bool
	OutputDir string
	Jobs      int
	NoCache   bool

	ListLanguages bool
	ListThemes    bool

	Files []string
}

// cliParser parses the command line arguments for codefig.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer

	// Env reads flags from CODEFIG_* environment variables.
	Env bool
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet, *int) {
	flag := flag.NewFlagSet("codefig", flag.ContinueOnError)
	// ff reports parse errors.
	flag.SetOutput(io.Discard)
	flag.Usage = func() {
		DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Configuration:
	flag.StringVar(&p.ConfigFile, "config", "", "")
	flag.String("flags", "", "")

	// Code block:
	flag.StringVar(&p.Language, "lang", "", "")
	flag.StringVar(&p.LightTheme, "light", "", "")
	flag.StringVar(&p.DarkTheme, "dark", "", "")
	flag.BoolVar(&p.Caption, "caption", false, "")
	flag.StringVar(&p.Notation, "notation", "", "")
	flag.Var(flagvalue.ListOf(&p.Lines), "lines", "")

	// Display:
	start := flag.Int("start", 1, "")
	flag.BoolVar(&p.NoLineNumbers, "no-line-numbers", false, "")
	flag.BoolVar(&p.NoLabel, "no-label", false, "")
	flag.BoolVar(&p.Wrap, "wrap", false, "")
	flag.BoolVar(&p.Trim, "trim", false, "")

	// Output:
	flag.BoolVar(&p.Document, "document", false, "")
	flag.BoolVar(&p.Vars, "vars", false, "")
	flag.StringVar(&p.OutputDir, "out", "", "")
	flag.IntVar(&p.Jobs, "j", 4, "")
	flag.BoolVar(&p.NoCache, "no-cache", false, "")

	// Program-level:
	flag.BoolVar(&p.ListLanguages, "list-languages", false, "")
	flag.BoolVar(&p.ListThemes, "list-themes", false, "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag, start
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, fset, start := cmd.newFlagSet()

	opts := []ff.Option{
		ff.WithConfigFileFlag("flags"),
		ff.WithConfigFileParser(ff.PlainParser),
	}
	if cmd.Env {
		opts = append(opts, ff.WithEnvVarPrefix(_envPrefix))
	}
	if err := ff.Parse(fset, args, opts...); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, err
	}
	args = fset.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "codefig", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil && h.known() {
			p.help = h
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	fset.Visit(func(f *flag.Flag) {
		if f.Name == "start" {
			p.StartLine = start
		}
	})

	if err := p.check(); err != nil {
		fmt.Fprintln(cmd.Stderr, err)
		UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	if len(args) > 0 {
		p.Files = args
	}
	if len(p.Files) == 0 && !p.ListLanguages && !p.ListThemes && !p.Vars {
		fmt.Fprintln(cmd.Stderr, "Please provide at least one file.")
		UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	return p, nil
}

// check reports flag combinations that can't be used.
func (p *params) check() error {
	if p.Notation != "" {
		if _, err := transform.ParseKind(p.Notation); err != nil {
			return fmt.Errorf("-notation: %w", err)
		}
	}
	if len(p.Lines) > 0 && p.Notation == "" {
		return errors.New("-lines requires -notation")
	}
	if p.StartLine != nil && *p.StartLine < 0 {
		return fmt.Errorf("-start must not be negative, got %d", *p.StartLine)
	}
	if p.Jobs < 1 {
		return fmt.Errorf("-j must be at least 1, got %d", p.Jobs)
	}
	return nil
}

// lineRange is a single line number or line range
// passed to -lines.
type lineRange string

var _ flag.Getter = (*lineRange)(nil)

func (r *lineRange) Get() any { return string(*r) }

func (r *lineRange) String() string { return string(*r) }

func (r *lineRange) Set(s string) error {
	s = strings.TrimSpace(s)
	if err := validate.NotationRange([]string{s}); err != nil {
		return errtrace.Wrap(err)
	}
	*r = lineRange(s)
	return nil
}
