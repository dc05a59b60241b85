// Package watch reloads the config file when it changes on disk.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
	"github.com/scienceol/keepawake/internal/config"
	"vawter.tech/stopper"
)

// ErrNoConfigFile is returned when there is no config file to watch.
var ErrNoConfigFile = errors.New("watch: no config file")

const debounce = 50 * time.Millisecond

// StopFunc stops the watcher and waits for it to exit, including a reload
// already in progress. onChange is not called after it returns.
type StopFunc func() error

// Watch calls onChange with every successful reload of cfg's file. Reload
// errors are logged and the previous configuration stays in effect.
//
// The parent directory is watched rather than the file itself so editors
// that replace the file on save are still seen.
func Watch(ctx context.Context, cfg *config.Config, logger hclog.Logger, onChange func(*config.Config)) (StopFunc, error) {
	if cfg.Path == "" {
		return nil, ErrNoConfigFile
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir, name := filepath.Split(cfg.Path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
	})

	var (
		mu        sync.Mutex
		current   = cfg
		debouncer *time.Timer
	)

	reload := func() {
		if sctx.IsStopping() {
			return
		}
		mu.Lock()
		defer mu.Unlock()

		next, err := current.Reload()
		if err != nil {
			logger.Warn("config reload failed", "path", cfg.Path, "error", err)
			return
		}
		current = next
		logger.Debug("config reloaded", "path", cfg.Path)
		onChange(next)
	}

	sctx.Go(func(sctx *stopper.Context) error {
		sctx.Defer(func() {
			mu.Lock()
			if debouncer != nil {
				debouncer.Stop()
			}
			mu.Unlock()
		})

		for !sctx.IsStopping() {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				mu.Lock()
				if debouncer != nil {
					debouncer.Stop()
				}
				debouncer = time.AfterFunc(debounce, func() {
					// Tracked by sctx so stopping waits for a reload in progress.
					sctx.Go(func(*stopper.Context) error {
						reload()
						return nil
					})
				})
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watcher error", "error", err)
			}
		}
		return nil
	})

	return func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}, nil
}
