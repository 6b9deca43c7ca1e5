package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"braces.dev/errtrace"
	"github.com/charmbracelet/log"
	"go.abhg.dev/codefig/internal/errdefer"
	"go.abhg.dev/codefig/internal/langs"
	"go.abhg.dev/codefig/internal/render"
	"go.abhg.dev/codefig/internal/validate"
	"golang.org/x/sync/errgroup"
)

// Renderer renders a single code block.
type Renderer interface {
	Render(context.Context, *render.CodeBlockData) (*render.Result, error)
}

var _ Renderer = (*render.Renderer)(nil)

// Generator renders source files into HTML code blocks.
//
// In terms of code organization,
// Generator's purpose is to add a separation between main
// and the program's core logic to aid in testability.
type Generator struct {
	Log       *log.Logger
	Renderer  Renderer
	Languages *langs.Catalog // guesses languages when Template has none

	// Template is copied for every file.
	// Language, Code, and FileName are filled per file.
	Template render.CodeBlockData

	// Caption shows each file's base name as its caption.
	Caption bool

	// Trim removes leading and trailing blank lines.
	Trim bool

	// Document wraps each block in its container.
	Document bool

	// OutDir receives one NAME.html per file.
	// If empty, blocks are written to Stdout in order.
	OutDir string
	Stdout io.Writer
	Stdin  io.Reader

	// Jobs is the maximum number of files rendered at once.
	// Zero means no limit.
	Jobs int
}

// Generate renders the given files.
// "-" reads from Stdin.
//
// Files are rendered concurrently.
// The first failure stops the remaining files.
func (g *Generator) Generate(ctx context.Context, files []string) error {
	if g.OutDir != "" {
		if err := checkOutputNames(files); err != nil {
			return errtrace.Wrap(err)
		}
	}

	blocks := make([]string, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	if g.Jobs > 0 {
		eg.SetLimit(g.Jobs)
	}
	for i, file := range files {
		eg.Go(func() error {
			block, err := g.renderFile(ctx, file)
			if err != nil {
				return errtrace.Wrap(fmt.Errorf("%v: %w", displayName(file), err))
			}
			blocks[i] = block
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return errtrace.Wrap(err)
	}

	if g.OutDir == "" {
		for _, block := range blocks {
			if _, err := io.WriteString(g.Stdout, block+"\n"); err != nil {
				return errtrace.Wrap(err)
			}
		}
		return nil
	}

	if err := os.MkdirAll(g.OutDir, 0o755); err != nil {
		return errtrace.Wrap(err)
	}
	for i, file := range files {
		if err := g.writeBlock(outputName(file), blocks[i]); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

func (g *Generator) renderFile(ctx context.Context, file string) (string, error) {
	src, err := g.readFile(file)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	data := g.Template
	data.Code = string(src)
	if g.Trim {
		data.Code = validate.TrimCode(data.Code)
	}

	var name string
	if file != "-" {
		name = filepath.Base(file)
	}
	if data.Language == "" {
		data.Language = g.Languages.Detect(name, src)
		g.Log.Debug("detected language", "file", displayName(file), "language", data.Language)
	}

	if g.Caption {
		if err := validate.FileName(name, data.Language, g.Languages); err != nil {
			g.Log.Warn("unexpected file name", "file", file, "error", err)
		}
		if caption, ok := validate.BlockName(name); ok {
			data.FileName = caption
		}
	}

	res, err := g.Renderer.Render(ctx, &data)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	g.Log.Debug("rendered", "file", displayName(file), "bytes", len(res.HTML))

	if g.Document {
		return errtrace.Wrap2(res.Document())
	}
	return res.HTML, nil
}

func (g *Generator) readFile(file string) ([]byte, error) {
	if file == "-" {
		return errtrace.Wrap2(io.ReadAll(g.Stdin))
	}
	return errtrace.Wrap2(os.ReadFile(file))
}

func (g *Generator) writeBlock(name, block string) (err error) {
	path := filepath.Join(g.OutDir, name)
	f, err := os.Create(path)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	g.Log.Info("writing", "path", path)
	_, err = io.WriteString(f, block+"\n")
	return errtrace.Wrap(err)
}

// outputName is the name of the HTML file for a source file.
// Stdin is written to "stdin.html".
func outputName(file string) string {
	if file == "-" {
		return "stdin.html"
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
}

// checkOutputNames reports files that would be written
// to the same output file.
func checkOutputNames(files []string) error {
	seen := make(map[string]string, len(files)) // output name -> file
	for _, file := range files {
		name := outputName(file)
		if prev, ok := seen[name]; ok {
			return errtrace.Errorf("%v and %v would both be written to %v",
				displayName(prev), displayName(file), name)
		}
		seen[name] = file
	}
	return nil
}

func displayName(file string) string {
	if file == "-" {
		return "<stdin>"
	}
	return file
}
