package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
	"github.com/custodia-labs/doceval/internal/logger"
)

// LoadRules reads rule overrides from a YAML file:
//
//	rules:
//	  - id: signature
//	    name: Signature Check
//	    description: Document must be signed by both parties
//	    type: SIGNATURE_CHECK
//	    priority: 1
//	    mandatory: true
//	remove: [date]
//
// A blank path or a missing file yields nil overrides and no error.
func LoadRules(path string) (*domain.RuleOverrides, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var overrides domain.RuleOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("%w: parse rules file %s: %w", domain.ErrValidation, path, err)
	}
	return &overrides, nil
}

// ApplyRules loads path and resets registry with its overrides. When the
// file is missing the registry returns to the bootstrap rules. A parse
// error leaves the registry untouched.
func ApplyRules(path string, registry driving.RuleRegistry) error {
	overrides, err := LoadRules(path)
	if err != nil {
		return err
	}
	if overrides == nil {
		overrides = &domain.RuleOverrides{}
	}
	registry.Reset(*overrides)
	return nil
}

// RulesWatcher re-applies a rules file whenever it changes on disk.
// The parent directory is watched so editors that replace the file by
// rename are picked up.
type RulesWatcher struct {
	path     string
	registry driving.RuleRegistry

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	// onReload is called after each reload attempt; used by tests.
	onReload func(error)
}

// NewRulesWatcher creates a watcher for path feeding registry.
func NewRulesWatcher(path string, registry driving.RuleRegistry) *RulesWatcher {
	return &RulesWatcher{
		path:     filepath.Clean(path),
		registry: registry,
	}
}

// Start applies the file once and then watches for changes until ctx is
// cancelled or Close is called.
func (w *RulesWatcher) Start(ctx context.Context) error {
	if err := ApplyRules(w.path, w.registry); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.mu.Lock()
	w.watcher = fw
	w.done = make(chan struct{})
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx, fw, w.done)

	logger.Debug("Watching rules file %s", w.path)
	return nil
}

func (w *RulesWatcher) loop(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.reload()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("Rules watcher error: %v", err)
		}
	}
}

// relevant reports whether event touches the watched file.
func (w *RulesWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *RulesWatcher) reload() {
	err := ApplyRules(w.path, w.registry)
	if err != nil {
		logger.Warn("Keeping previous rules: %v", err)
	} else {
		logger.Info("Reloaded rules from %s", w.path)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

// Close stops watching. It is safe to call more than once.
func (w *RulesWatcher) Close() error {
	w.mu.Lock()
	fw, done := w.watcher, w.done
	w.watcher, w.done = nil, nil
	w.mu.Unlock()

	if fw == nil {
		return nil
	}
	close(done)
	err := fw.Close()
	w.wg.Wait()
	return err
}
