package definition

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/vitalvas/schemakit/resolver"
)

// Holder keeps the resolver built from a set of definition paths and
// rebuilds it when the files change. A failed reload keeps the previous
// resolver.
type Holder struct {
	mu       sync.RWMutex
	paths    []string
	opts     []resolver.Option
	resolver *resolver.Resolver
	logger   *zap.Logger
	onChange []func(*resolver.Resolver)
}

// NewHolder loads the definitions under paths. A nil logger disables
// logging.
func NewHolder(logger *zap.Logger, paths []string, opts ...resolver.Option) (*Holder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r, err := Load(paths, opts...)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}

	return &Holder{
		paths:    paths,
		opts:     opts,
		resolver: r,
		logger:   logger,
	}, nil
}

// Resolver returns the current resolver.
func (h *Holder) Resolver() *resolver.Resolver {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.resolver
}

// OnChange registers fn to be called with every reloaded resolver.
func (h *Holder) OnChange(fn func(*resolver.Resolver)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// Reload rebuilds the resolver from disk.
func (h *Holder) Reload() error {
	r, err := Load(h.paths, h.opts...)
	if err != nil {
		h.logger.Error("definition reload failed, keeping previous definitions", zap.Error(err))
		return fmt.Errorf("reload definitions: %w", err)
	}

	h.mu.Lock()
	h.resolver = r
	listeners := append([]func(*resolver.Resolver){}, h.onChange...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(r)
	}

	h.logger.Info("definitions reloaded",
		zap.Int("schemas", len(r.SchemaNames())),
		zap.Int("endpoints", len(r.EndpointNames())),
	)
	return nil
}

// Watch reloads the definitions whenever a definition file under the
// watched paths is written, created, removed or renamed. It blocks until
// ctx is done.
func (h *Holder) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Directories are watched instead of files to survive atomic saves.
	dirs := make(map[string]bool)
	for _, path := range h.paths {
		dir := path
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	h.logger.Info("watching definitions for changes", zap.Strings("paths", h.paths))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDefinition(event.Name) || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}

			h.logger.Debug("definition changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			_ = h.Reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
