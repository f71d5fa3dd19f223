package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/pontaoski/hackfront/config"
	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/emitter"
	"github.com/pontaoski/hackfront/folding"
	"github.com/pontaoski/hackfront/lower"
	"github.com/pontaoski/hackfront/reader"
	"github.com/pontaoski/hackfront/typing"
	"github.com/pontaoski/hackfront/xhp"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/hackfront", "main")

func main() {
	app := &cli.App{
		Name:  "hackfront",
		Usage: "hack front end",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "manifest",
				Value: config.FileName,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
			},
			&cli.IntFlag{
				Name:  "jobs",
				Usage: "files parsed at once",
			},
			&cli.BoolFlag{
				Name:  "no-xhp",
				Usage: "parse markup literals as plain comparisons",
			},
		},
		Before: func(c *cli.Context) error {
			capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
			if c.Bool("verbose") {
				capnslog.SetGlobalLogLevel(capnslog.DEBUG)
			} else {
				capnslog.SetGlobalLogLevel(capnslog.WARNING)
			}
			return nil
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "create a project manifest",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("no project name provided", 1)
					}
					path := c.String("manifest")
					if _, err := os.Stat(path); err == nil {
						return cli.Exit(fmt.Sprintf("%s already exists", path), 1)
					}
					return config.Save(path, config.Default(name))
				},
			},
			{
				Name:      "parse",
				Usage:     "parse files and print their syntax errors",
				ArgsUsage: "[FILE...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "ast",
						Usage: "print the lowered program",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "dump the lowered program structure",
					},
				},
				Action: parseCommand,
			},
			{
				Name:      "decls",
				Usage:     "print declaration summaries",
				ArgsUsage: "[FILE...]",
				Action:    declsCommand,
			},
			{
				Name:      "fold",
				Usage:     "fold the project's classes and print them",
				ArgsUsage: "[CLASS...]",
				Action:    foldCommand,
			},
			{
				Name:      "rewrite",
				Usage:     "print files with markup desugared",
				ArgsUsage: "[FILE...]",
				Action:    rewriteCommand,
			},
			{
				Name:      "emit",
				Usage:     "build a module listing every referenced symbol",
				ArgsUsage: "[FILE...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the LLVM IR instead of compiling it",
					},
				},
				Action: emitCommand,
			},
			{
				Name:      "symbols",
				Usage:     "dump the symbol references of a compiled module",
				ArgsUsage: "MODULE",
				Action: func(c *cli.Context) error {
					refs, err := reader.ReadSymbolRefs(c.Args().First())
					if err != nil {
						return err
					}
					return printYAML(os.Stdout, refs)
				},
			},
			{
				Name:   "watch",
				Usage:  "refold the project whenever a source file changes",
				Action: watchCommand,
			},
		},
	}
	app.Run(os.Args)
}

func printYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return tracerr.Wrap(err)
	}
	_, err = w.Write(out)
	return err
}

func parseCommand(c *cli.Context) error {
	proj, root, err := loadProject(c)
	if err != nil {
		return err
	}
	paths, err := inputFiles(c, proj, root)
	if err != nil {
		return err
	}
	units, err := parseAll(c.Context, proj, paths, false)
	if err != nil {
		return err
	}

	failed := false
	for _, u := range units {
		if reportSyntaxErrors(os.Stderr, u.tree) {
			failed = true
			u.release()
			continue
		}
		if c.Bool("ast") || c.Bool("dump") {
			prog, err := lower.Program(u.tree, &proj.Decl)
			if err != nil {
				return err
			}
			if c.Bool("dump") {
				repr.Println(prog)
			} else {
				fmt.Println(prog.String())
			}
		}
		u.release()
	}
	if failed {
		return cli.Exit("", 1)
	}
	return nil
}

func declsCommand(c *cli.Context) error {
	proj, root, err := loadProject(c)
	if err != nil {
		return err
	}
	paths, err := inputFiles(c, proj, root)
	if err != nil {
		return err
	}
	units, err := parseAll(c.Context, proj, paths, true)
	if err != nil {
		return err
	}

	for _, u := range units {
		out, err := decl.MarshalParsedFile(u.decls)
		if err != nil {
			return tracerr.Wrap(err)
		}
		fmt.Printf("# %s\n%s---\n", u.path, out)
	}
	return nil
}

func foldProject(c *cli.Context, cache *folding.Cache) (*folding.Result, map[string]*decl.ParsedFile, error) {
	proj, root, err := loadProject(c)
	if err != nil {
		return nil, nil, err
	}
	paths, err := proj.Files(root)
	if err != nil {
		return nil, nil, err
	}
	units, err := parseAll(c.Context, proj, paths, true)
	if err != nil {
		return nil, nil, err
	}

	files := map[string]*decl.ParsedFile{}
	for _, u := range units {
		files[u.path] = u.decls
	}
	return folding.FoldAll(files, cache), files, nil
}

func foldCommand(c *cli.Context) error {
	result, _, err := foldProject(c, nil)
	if err != nil {
		return err
	}

	names := c.Args().Slice()
	if len(names) == 0 {
		names = slices.Sorted(maps.Keys(result.Classes))
	}
	for _, name := range names {
		ct, ok := result.Class(name)
		if !ok {
			return cli.Exit(fmt.Sprintf("no class named %s", name), 1)
		}
		out, err := typing.MarshalClassType(ct)
		if err != nil {
			return tracerr.Wrap(err)
		}
		fmt.Printf("# %s (%s)\n%s---\n", name, result.Files[name], out)
	}
	return nil
}

func rewriteCommand(c *cli.Context) error {
	proj, root, err := loadProject(c)
	if err != nil {
		return err
	}
	paths, err := inputFiles(c, proj, root)
	if err != nil {
		return err
	}
	units, err := parseAll(c.Context, proj, paths, false)
	if err != nil {
		return err
	}
	defer func() {
		for _, u := range units {
			u.release()
		}
	}()

	for _, u := range units {
		prog, err := lower.Program(u.tree, &proj.Decl)
		if err != nil {
			return err
		}
		if err := xhp.Rewrite(&prog, emitter.New(u.path)); err != nil {
			return err
		}
		fmt.Printf("// %s\n%s\n", u.path, prog.String())
	}
	return nil
}

func emitCommand(c *cli.Context) error {
	proj, root, err := loadProject(c)
	if err != nil {
		return err
	}
	paths, err := inputFiles(c, proj, root)
	if err != nil {
		return err
	}
	units, err := parseAll(c.Context, proj, paths, false)
	if err != nil {
		return err
	}
	defer func() {
		for _, u := range units {
			u.release()
		}
	}()

	em := emitter.New(proj.Name)
	for _, u := range units {
		prog, err := lower.Program(u.tree, &proj.Decl)
		if err != nil {
			return err
		}
		if err := xhp.Rewrite(&prog, em); err != nil {
			return err
		}
		if err := em.Collect(prog); err != nil {
			return err
		}
	}

	m, err := em.Module()
	if err != nil {
		return err
	}
	module := m.String()

	if c.Bool("dump") {
		fmt.Println(module)
		return nil
	}

	out := c.String("output")
	if out == "" {
		out = proj.OutputName() + ".so"
	}

	fi, err := os.CreateTemp("", "*.ll")
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer os.Remove(fi.Name())
	defer fi.Close()

	if _, err := io.Copy(fi, strings.NewReader(module)); err != nil {
		return tracerr.Wrap(err)
	}

	cmd := exec.Command("clang", "-nostdlib", "-shared", "-o", out, fi.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	plog.Debugf("running %s", strings.Join(cmd.Args, " "))

	return tracerr.Wrap(cmd.Run())
}
