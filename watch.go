package main

import (
	"io/fs"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/hackfront/config"
	"github.com/pontaoski/hackfront/decl"
	"github.com/pontaoski/hackfront/folding"
)

func watchDirs(w *fsnotify.Watcher, proj *config.Project, root string) error {
	for _, dir := range proj.Sources {
		start := filepath.Join(root, dir)
		err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != start && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.Add(path)
		})
		if err != nil {
			return tracerr.Wrap(err)
		}
	}
	return nil
}

func reportFold(result *folding.Result) {
	problems := 0
	for _, name := range result.Classes.Names() {
		ct := result.Classes[name]
		for _, err := range ct.Errors {
			plog.Warningf("%s: %s: %v", result.Files[name], name, err)
			problems++
		}
	}
	plog.Infof("%d classes folded, %d problems", len(result.Classes), problems)
}

func watchCommand(c *cli.Context) error {
	proj, root, err := loadProject(c)
	if err != nil {
		return err
	}

	cache := folding.NewCache()
	result, files, err := foldProject(c, cache)
	if err != nil {
		return err
	}
	reportFold(result)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer w.Close()
	if err := watchDirs(w, proj, root); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			plog.Errorf("watch: %v", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !slices.Contains(proj.Extensions, filepath.Ext(ev.Name)) {
				continue
			}
			if !applyEvent(proj, files, cache, ev) {
				continue
			}
			reportFold(folding.FoldAll(files, cache))
		}
	}
}

// applyEvent brings files and cache up to date with one change and reports
// whether anything needs refolding.
func applyEvent(proj *config.Project, files map[string]*decl.ParsedFile, cache *folding.Cache, ev fsnotify.Event) bool {
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		delete(files, ev.Name)
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		u, err := parseFile(proj, ev.Name, true)
		if err != nil {
			plog.Errorf("%s: %v", ev.Name, err)
			return false
		}
		files[ev.Name] = u.decls
	default:
		return false
	}

	dropped := cache.Invalidate(ev.Name)
	if _, ok := files[ev.Name]; ok {
		// The file may now declare an ancestor that cached classes were
		// missing.
		dropped = append(dropped, cache.InvalidateUnbound()...)
	}
	plog.Infof("%s: %s, refolding %d classes", ev.Name, ev.Op, len(dropped))
	return true
}
