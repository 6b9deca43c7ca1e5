// codefig renders source files into syntax highlighted HTML code blocks
// with light and dark themes, line numbers, and line notations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"braces.dev/errtrace"
	"github.com/charmbracelet/log"
	"go.abhg.dev/codefig/internal/config"
	"go.abhg.dev/codefig/internal/errdefer"
	"go.abhg.dev/codefig/internal/flagvalue"
	"go.abhg.dev/codefig/internal/langs"
	"go.abhg.dev/codefig/internal/ptr"
	"go.abhg.dev/codefig/internal/render"
	"go.abhg.dev/codefig/internal/style"
	"go.abhg.dev/codefig/internal/themes"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cmd := mainCmd{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env:    true,
	}
	exitCode := cmd.Run(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode)
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdin  io.Reader // == os.Stdin
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	// Env reads flags from the environment.
	Env bool

	log *log.Logger
}

func (cmd *mainCmd) Run(ctx context.Context, args []string) (exitCode int) {
	cmd.log = log.NewWithOptions(cmd.Stderr, log.Options{Prefix: "codefig"})

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
		Env:    cmd.Env,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	if err := cmd.run(ctx, opts); err != nil {
		cmd.log.Error(err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(ctx context.Context, opts *params) (err error) {
	debugLog, closeDebug, err := opts.Debug.Logger(cmd.Stderr, "codefig")
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("open debug log: %w", err))
	}
	defer errdefer.Run(&err, closeDebug)

	logger := cmd.log
	if debugLog != nil {
		logger = debugLog
	}

	languages := langs.Default()
	themeCat := themes.Default()

	cfg := new(config.Config)
	if opts.ConfigFile != "" {
		cfg, err = config.LoadFile(opts.ConfigFile)
		if err != nil {
			return errtrace.Wrap(err)
		}
	}
	if opts.LightTheme != "" {
		cfg.Themes.Light = opts.LightTheme
	}
	if opts.DarkTheme != "" {
		cfg.Themes.Dark = opts.DarkTheme
	}
	if opts.NoCache {
		cfg.Cache = ptr.Of(false)
	}

	switch {
	case opts.ListLanguages:
		return errtrace.Wrap(cmd.listLanguages(languages, cfg.Languages))
	case opts.ListThemes:
		return errtrace.Wrap(cmd.listThemes(themeCat))
	case opts.Vars:
		vars := style.Variables(cfg.Style, cfg.Notation)
		_, err := fmt.Fprintln(cmd.Stdout, style.Declarations(vars))
		return errtrace.Wrap(err)
	}

	renderer, err := render.New(cfg, render.Options{
		Languages: languages,
		Themes:    themeCat,
		Log:       logger,
	})
	if err != nil {
		return errtrace.Wrap(err)
	}

	block := render.CodeBlockData{
		Language:        opts.Language,
		NotationType:    opts.Notation,
		NotationRange:   flagvalue.ListOf(&opts.Lines).Strings(),
		StartLineNumber: opts.StartLine,
	}
	if opts.NoLineNumbers {
		block.ShowLineNumbers = ptr.Of(false)
	}
	if opts.NoLabel {
		block.ShowLanguageLabel = ptr.Of(false)
	}
	if opts.Wrap {
		block.Wrap = ptr.Of(true)
	}

	gen := Generator{
		Log:       logger,
		Renderer:  renderer,
		Languages: languages,
		Template:  block,
		Caption:   opts.Caption,
		Trim:      opts.Trim,
		Document:  opts.Document,
		OutDir:    opts.OutputDir,
		Stdout:    cmd.Stdout,
		Stdin:     cmd.Stdin,
		Jobs:      opts.Jobs,
	}
	return errtrace.Wrap(gen.Generate(ctx, opts.Files))
}

// listLanguages prints "id<TAB>label" for each language.
// If the configuration restricts languages, only those are listed.
func (cmd *mainCmd) listLanguages(cat *langs.Catalog, configured []langs.Spec) error {
	if len(configured) > 0 {
		for _, opt := range cat.Options(configured) {
			if _, err := fmt.Fprintf(cmd.Stdout, "%v\t%v\n", opt.Value, opt.Label); err != nil {
				return errtrace.Wrap(err)
			}
		}
		return nil
	}

	for _, id := range cat.IDs() {
		e, _ := cat.Lookup(id)
		if _, err := fmt.Fprintf(cmd.Stdout, "%v\t%v\n", id, e.Name); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

// listThemes prints "id<TAB>light|dark<TAB>label" for each theme.
func (cmd *mainCmd) listThemes(cat *themes.Catalog) error {
	for _, group := range []struct {
		kind string
		list []themes.Theme
	}{
		{"light", cat.Light},
		{"dark", cat.Dark},
	} {
		for _, t := range group.list {
			if _, err := fmt.Fprintf(cmd.Stdout, "%v\t%v\t%v\n", t.ID, group.kind, t.Label); err != nil {
				return errtrace.Wrap(err)
			}
		}
	}
	return nil
}
