package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"golang.org/x/sync/errgroup"

	"github.com/pontaoski/hackfront/config"
	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/parser"
	"github.com/pontaoski/hackfront/syntax"
)

// loadProject reads the manifest named by --manifest. A missing manifest
// yields the defaults, named after the directory it would live in.
func loadProject(c *cli.Context) (*config.Project, string, error) {
	path := c.String("manifest")
	root := filepath.Dir(path)

	proj, err := config.Load(path)
	if err != nil {
		if !os.IsNotExist(tracerr.Unwrap(err)) {
			return nil, "", err
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, "", tracerr.Wrap(err)
		}
		plog.Debugf("no %s, using defaults", path)
		proj = config.Default(filepath.Base(abs))
	}

	if c.IsSet("jobs") {
		proj.Jobs = c.Int("jobs")
	}
	if c.IsSet("no-xhp") {
		proj.Parser.EnableXHP = !c.Bool("no-xhp")
	}
	return proj, root, nil
}

// inputFiles is the command line arguments, or every project file when there
// are none.
func inputFiles(c *cli.Context, proj *config.Project, root string) ([]string, error) {
	if c.NArg() > 0 {
		return c.Args().Slice(), nil
	}
	return proj.Files(root)
}

type unit struct {
	path  string
	tree  *syntax.Tree
	decls *decl.ParsedFile
}

func (u unit) release() {
	if u.tree != nil {
		u.tree.Release()
	}
}

// parseAll parses paths in parallel, each into its own arena. With declsOnly
// set only the declaration summaries are built.
func parseAll(ctx context.Context, proj *config.Project, paths []string, declsOnly bool) ([]unit, error) {
	units := make([]unit, len(paths))

	jobs := proj.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u, err := parseFile(proj, path, declsOnly)
			if err != nil {
				return err
			}
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, u := range units {
			u.release()
		}
		return nil, err
	}

	plog.Debugf("parsed %d files with %d jobs", len(paths), jobs)
	return units, nil
}

func parseFile(proj *config.Project, path string, declsOnly bool) (unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return unit{}, tracerr.Wrap(err)
	}
	src := syntax.NewSourceText(path, string(data))

	u := unit{path: path}
	if declsOnly {
		u.decls = parser.ParseDecls(&proj.Decl, proj.Parser, src, nil, proj.Limit())
	} else {
		u.tree, u.decls = parser.ParseScript(&proj.Decl, proj.Parser, src, nil, syntax.NewArena(), proj.Limit())
	}
	return u, nil
}

// reportSyntaxErrors prints every syntax error in tree and reports whether
// there were any.
func reportSyntaxErrors(w io.Writer, tree *syntax.Tree) bool {
	for _, err := range tree.Errors {
		pos := tree.Source.Pos(err.Location)
		fmt.Fprintf(w, "%s:%d:%d: %v\n", tree.Source.Path, pos.From.Line, pos.From.Column, err.Err)
	}
	return len(tree.Errors) > 0
}
