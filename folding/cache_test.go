package folding

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontaoski/hackfront/typing"
)

func TestCacheInvalidatesThroughAncestors(t *testing.T) {
	files := parseFiles(t, map[string]string{
		"base.php":  "<?hh\nclass Base {}\n",
		"child.php": "<?hh\nclass Child extends Base {}\n",
		"other.php": "<?hh\nclass Other {}\n",
	})
	cache := NewCache()
	first := FoldAll(files, cache)
	assert.Equal(t, 3, cache.Len())

	assert.Equal(t, []string{"Base", "Child"}, cache.Invalidate("base.php"))
	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("Other")
	assert.True(t, ok)

	second := FoldAll(files, cache)
	assert.Same(t, first.Classes["Other"], second.Classes["Other"])
	assert.NotSame(t, first.Classes["Child"], second.Classes["Child"])
	assert.Equal(t, 3, cache.Len())
}

func TestCacheInvalidateUnbound(t *testing.T) {
	files := parseFiles(t, map[string]string{
		"a.php": "<?hh\nclass A extends Later {}\nclass B extends A {}\nclass C {}\n",
	})
	cache := NewCache()
	r := FoldAll(files, cache)
	require.NotEmpty(t, r.Classes["A"].Errors)

	assert.Equal(t, []string{"A", "B"}, cache.InvalidateUnbound())
	assert.Equal(t, 1, cache.Len())

	for path, f := range parseFiles(t, map[string]string{"later.php": "<?hh\nclass Later {}\n"}) {
		files[path] = f
	}
	r = FoldAll(files, cache)
	assert.Empty(t, r.Classes["A"].Errors)
	assert.True(t, r.Classes["B"].Extends.Has("A"))
	assert.Contains(t, r.Classes["B"].Ancestors, "Later")
}

func TestCacheConcurrentUse(t *testing.T) {
	cache := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ct := typing.NewClassType("X", typing.Class)
			cache.Put(ct, typing.NewSSet("x.php"))
			cache.Get("X")
			cache.Invalidate("y.php")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cache.Len())
}
