package adapters

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"wsdl-bundler/internal/ports"
	"wsdl-bundler/internal/shared"
)

const defaultWatchDebounce = 300 * time.Millisecond

type FSWatcherAdapter struct {
	Debounce time.Duration
}

func NewFSWatcherAdapter(debounceMs int) FSWatcherAdapter {
	debounce := time.Duration(debounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	return FSWatcherAdapter{Debounce: debounce}
}

func (a FSWatcherAdapter) Watch(ctx context.Context, dirs []string, ignore func(path string) bool, onChange func(path string)) error {
	if len(dirs) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no directories to watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create file watcher").
			WithCause(err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := addWatchRecursively(watcher, dir); err != nil {
			return err
		}
		log.Info().Str("dir", dir).Msg("started watching directory")
	}

	debounce := a.Debounce
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := ""
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopping file watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("file watcher events channel closed")
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchRecursively(watcher, event.Name); err != nil {
						log.Error().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
					}
					continue
				}
			}
			if !isSchemaEvent(event) || (ignore != nil && ignore(event.Name)) {
				continue
			}
			log.Debug().Str("event", event.String()).Msg("schema file changed")
			pending = event.Name
			timer.Reset(debounce)
		case <-timer.C:
			if pending != "" {
				onChange(pending)
				pending = ""
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("file watcher errors channel closed")
			}
			log.Error().Err(err).Msg("file watcher error")
		}
	}
}

func isSchemaEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return shared.IsSchemaFile(event.Name)
}

func addWatchRecursively(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("failed to walk " + path).
				WithCause(err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to watch " + path).
				WithCause(err)
		}
		return nil
	})
}

var _ ports.WatcherPort = FSWatcherAdapter{}
