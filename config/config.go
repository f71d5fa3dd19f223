// Package config reads and writes the project manifest.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/parser"
)

// FileName is the manifest looked up in the project root.
const FileName = "hackfront.yaml"

type Project struct {
	Name string `yaml:"name"`
	// Sources lists directories, relative to the manifest, that are
	// searched for source files.
	Sources    []string `yaml:"sources"`
	Extensions []string `yaml:"extensions"`
	// Output is where emitted modules are written. Defaults to the
	// project name.
	Output string `yaml:"output,omitempty"`
	// Jobs bounds how many files are parsed at once. Zero means one per
	// CPU.
	Jobs       int          `yaml:"jobs,omitempty"`
	StackLimit int          `yaml:"stack_limit,omitempty"`
	Parser     parser.Env   `yaml:"parser"`
	Decl       decl.Options `yaml:"decl"`
}

func Default(name string) *Project {
	return &Project{
		Name:       name,
		Sources:    []string{"."},
		Extensions: []string{".php", ".hack"},
		Parser:     parser.DefaultEnv(),
	}
}

func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	p := Default("")
	if err := yaml.UnmarshalStrict(data, p); err != nil {
		return nil, tracerr.Wrap(err)
	}
	return p, nil
}

func Save(path string, p *Project) error {
	out, err := yaml.Marshal(p)
	if err != nil {
		return tracerr.Wrap(err)
	}
	return tracerr.Wrap(os.WriteFile(path, out, 0o644))
}

func (p *Project) Limit() *parser.StackLimit {
	if p.StackLimit <= 0 {
		return nil
	}
	return &parser.StackLimit{Max: p.StackLimit}
}

func (p *Project) OutputName() string {
	if p.Output != "" {
		return p.Output
	}
	return p.Name
}

// Files lists every source file under the project's source directories,
// sorted and without duplicates.
func (p *Project) Files(root string) ([]string, error) {
	var files []string
	for _, dir := range p.Sources {
		start := filepath.Join(root, dir)
		err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != start && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if slices.Contains(p.Extensions, filepath.Ext(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}
