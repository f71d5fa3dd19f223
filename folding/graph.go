package folding

import (
	"maps"
	"slices"

	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/typing"
)

// Result is the outcome of folding a set of files.
type Result struct {
	Classes MapProvider
	// Files maps a class name to the file that declares it.
	Files map[string]string
	// Deps maps a class name to every file its folded type was built from.
	Deps map[string]typing.SSet
}

func (r *Result) Class(name string) (*typing.ClassType, bool) {
	return r.Classes.Class(name)
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

type graph struct {
	decls  map[string]*decl.ClassDecl
	state  map[string]visitState
	stack  []string
	cycles map[string][]string
	cache  *Cache
	result *Result
}

// FoldAll folds every class declared in files, ancestors before descendants.
// Classes on an inheritance cycle get a CyclicInheritance error and are folded
// without the edges that close the cycle. Classes found in cache are reused
// as they are. cache may be nil.
func FoldAll(files map[string]*decl.ParsedFile, cache *Cache) *Result {
	g := &graph{
		decls:  map[string]*decl.ClassDecl{},
		state:  map[string]visitState{},
		cycles: map[string][]string{},
		cache:  cache,
		result: &Result{
			Classes: MapProvider{},
			Files:   map[string]string{},
			Deps:    map[string]typing.SSet{},
		},
	}

	for _, path := range slices.Sorted(maps.Keys(files)) {
		for _, c := range files[path].Classes() {
			if prev, ok := g.result.Files[c.Name]; ok {
				plog.Warningf("class %s is declared in both %s and %s, keeping the first", c.Name, prev, path)
				continue
			}
			g.decls[c.Name] = c
			g.result.Files[c.Name] = path
		}
	}

	for _, name := range slices.Sorted(maps.Keys(g.decls)) {
		g.visit(name)
	}

	plog.Debugf("folded %d classes from %d files", len(g.result.Classes), len(files))
	return g.result
}

func (g *graph) visit(name string) {
	switch g.state[name] {
	case visited:
		return
	case visiting:
		g.markCycle(name)
		return
	}

	if g.cache != nil {
		if ct, deps, ok := g.cache.lookup(name); ok {
			g.state[name] = visited
			g.result.Classes[name] = ct
			g.result.Deps[name] = deps
			return
		}
	}

	c := g.decls[name]
	g.state[name] = visiting
	g.stack = append(g.stack, name)
	for _, ref := range ancestorsOf(c) {
		if _, known := g.decls[ref.ty.Name]; known {
			g.visit(ref.ty.Name)
		}
	}
	g.stack = g.stack[:len(g.stack)-1]

	cycle := g.cycles[name]
	var skip map[string]bool
	if cycle != nil {
		skip = map[string]bool{}
		for _, member := range cycle {
			skip[member] = true
		}
	}

	ct := fold(c, g.result, skip)
	if cycle != nil {
		ct.AddError(errors.NewCyclicInheritance(name, cycle, c.Pos))
	}

	deps := typing.NewSSet(g.result.Files[name])
	for _, ref := range ancestorsOf(c) {
		for file := range g.result.Deps[ref.ty.Name] {
			deps.Add(file)
		}
	}

	g.state[name] = visited
	g.result.Classes[name] = ct
	g.result.Deps[name] = deps
	if g.cache != nil {
		g.cache.Put(ct, deps)
	}
}

// markCycle records the cycle closed by reaching name again.
func (g *graph) markCycle(name string) {
	start := slices.Index(g.stack, name)
	cycle := slices.Clone(g.stack[start:])
	for _, member := range cycle {
		if prev, ok := g.cycles[member]; ok {
			cycle = mergeCycle(prev, cycle)
		}
	}
	for _, member := range cycle {
		g.cycles[member] = cycle
	}
}

func mergeCycle(a, b []string) []string {
	out := slices.Clone(a)
	for _, name := range b {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
