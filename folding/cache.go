package folding

import (
	"sync"

	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/typing"
)

type cacheEntry struct {
	class *typing.ClassType
	deps  typing.SSet
}

// Cache keeps folded classes between runs. An entry lives until one of the
// files it was built from is invalidated. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: map[string]cacheEntry{}}
}

func (c *Cache) Get(name string) (*typing.ClassType, bool) {
	ct, _, ok := c.lookup(name)
	return ct, ok
}

func (c *Cache) lookup(name string) (*typing.ClassType, typing.SSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[name]
	return e.class, e.deps, ok
}

// Put stores class, which was folded from the files in deps.
func (c *Cache) Put(class *typing.ClassType, deps typing.SSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[class.Name] = cacheEntry{class: class, deps: deps}
}

// Invalidate drops every class that depends on file and returns their names.
func (c *Cache) Invalidate(file string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := typing.SSet{}
	for name, e := range c.entries {
		if e.deps.Has(file) {
			dropped.Add(name)
			delete(c.entries, name)
		}
	}
	if len(dropped) > 0 {
		plog.Debugf("%s changed, dropped %d folded classes", file, len(dropped))
	}
	return dropped.Sorted()
}

// InvalidateUnbound drops every class that was folded with an ancestor
// missing, along with their descendants.
func (c *Cache) InvalidateUnbound() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := typing.SSet{}
	for name, e := range c.entries {
		for _, err := range e.class.Errors {
			if err.Kind == errors.UnboundAncestor {
				dropped.Add(name)
				break
			}
		}
	}
	for name, e := range c.entries {
		for anc := range e.class.Ancestors {
			if dropped.Has(anc) {
				dropped.Add(name)
				break
			}
		}
	}
	for name := range dropped {
		delete(c.entries, name)
	}
	return dropped.Sorted()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
