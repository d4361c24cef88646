package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/ontodoc/render"
	"github.com/fsnotify/fsnotify"
)

// Watch generates once and then re-renders the cached data whenever the
// template or one of its partials changes, until ctx is cancelled. Render
// errors after the first run are logged and do not stop watching.
func (g *Generator) Watch(ctx context.Context) error {
	data, err := g.Load(ctx)
	if err != nil {
		return err
	}
	if err := g.Render(data); err != nil {
		return err
	}
	if err := g.writeMetrics(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	watched, err := g.watchTemplates(fsw)
	if err != nil {
		return err
	}

	g.logger.Info("Watching templates for changes",
		"files", len(watched),
		"debounce", g.opts.Debounce)

	// Editors often replace files instead of writing them, so directories
	// are watched and events filtered by file name.
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if !watched[abs] && !g.matchesPartials(event.Name) {
				continue
			}
			g.logger.Debug("Template change detected", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(g.opts.Debounce)
			} else {
				timer.Reset(g.opts.Debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("Watcher error", "error", err)

		case <-fire:
			fire = nil
			if err := g.Render(data); err != nil {
				g.logger.Error("Re-render failed", "error", err)
				continue
			}
			g.logger.Info("Re-rendered documentation")

			// New partials may have appeared in new directories.
			if files, err := g.watchTemplates(fsw); err == nil {
				watched = files
			}
		}
	}
}

// watchTemplates adds the directory of every template file to fsw and
// returns the set of absolute template paths.
func (g *Generator) watchTemplates(fsw *fsnotify.Watcher) (map[string]bool, error) {
	files, err := render.Files(g.opts.TemplateFile, g.opts.Partials)
	if err != nil {
		return nil, err
	}

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			g.logger.Warn("Failed to watch directory", "path", dir, "error", err)
			continue
		}
		g.logger.Debug("Watching directory", "path", dir)
	}
	return watched, nil
}

func (g *Generator) matchesPartials(path string) bool {
	if g.opts.Partials == "" {
		return false
	}
	ok, err := doublestar.PathMatch(g.opts.Partials, path)
	return err == nil && ok
}
