package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"wsdl-bundler/internal/adapters"
	"wsdl-bundler/internal/core"
)

// Watch flattens once and then again whenever a WSDL or XSD next to the
// source changes, until ctx is canceled.
func (s Service) Watch(ctx context.Context, req WatchRequest) error {
	location := strings.TrimSpace(req.Flatten.Location)
	if location == "" || isURL(location) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("watch requires a local wsdl file")
	}
	location, err := absoluteLocation(location)
	if err != nil {
		return err
	}
	outputDir, err := filepath.Abs(strings.TrimSpace(req.Flatten.OutputDir))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid output directory").
			WithCause(err)
	}
	flatten := req.Flatten
	flatten.Location = location
	flatten.OutputDir = outputDir

	result, err := s.Flatten(ctx, flatten)
	if err != nil {
		if core.KindOf(err) == core.KindUnknown {
			return err
		}
		log.Error().Err(err).Str("location", location).Msg("initial flatten failed")
	}
	if req.OnFlatten != nil {
		req.OnFlatten(result, err)
	}

	watcher := s.Watcher
	if watcher == nil {
		watcher = adapters.NewFSWatcherAdapter(req.DebounceMs)
	}
	ignore := func(path string) bool {
		return isWithin(path, outputDir)
	}
	return watcher.Watch(ctx, []string{filepath.Dir(location)}, ignore, func(path string) {
		log.Info().Str("path", path).Msg("change detected, flattening")
		result, err := s.Flatten(ctx, flatten)
		if err != nil {
			log.Error().Err(err).Str("location", location).Msg("flatten failed")
		}
		if req.OnFlatten != nil {
			req.OnFlatten(result, err)
		}
	})
}

func isWithin(path string, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
