package app

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"wsdl-bundler/internal/core"
)

func (s Service) Flatten(ctx context.Context, req FlattenRequest) (FlattenResult, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return FlattenResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("wsdl location is required")
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return FlattenResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	template := strings.TrimSpace(req.FilenameTemplate)
	if template == "" {
		template = DefaultFilenameTemplate
	}
	if err := core.ValidateTemplate(template); err != nil {
		return FlattenResult{}, err
	}
	location, err := absoluteLocation(location)
	if err != nil {
		return FlattenResult{}, err
	}

	fetcher, err := s.fetcher(req.Fetch)
	if err != nil {
		return FlattenResult{}, err
	}
	resolver := core.NewResolverCore(fetcher)
	set, err := resolver.Load(ctx, location, template)
	if err != nil {
		return FlattenResult{}, err
	}
	for _, name := range set.Imports() {
		assert.NotEmpty(ctx, name, "generated filename must not be empty")
	}

	manifest, err := s.output(outputDir, req.RootFilename).WriteBundle(location, template, set)
	if err != nil {
		return FlattenResult{}, err
	}
	assert.NotEmpty(ctx, manifest.Root.File, "root filename must be set")

	log.Info().
		Str("source", location).
		Str("output", outputDir).
		Int("files", len(manifest.Files())).
		Msg("bundle written")
	return FlattenResult{
		Source:    location,
		OutputDir: outputDir,
		RootFile:  manifest.Root.File,
		Files:     manifest.Files(),
	}, nil
}

// absoluteLocation leaves URLs alone and turns relative filesystem paths
// into absolute ones.
func absoluteLocation(location string) (string, error) {
	if isURL(location) || filepath.IsAbs(location) {
		return location, nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid wsdl location").
			WithCause(err)
	}
	return abs, nil
}

// isURL reports a location with a scheme. Single-letter schemes are
// Windows drive letters.
func isURL(location string) bool {
	parsed, err := url.Parse(location)
	return err == nil && len(parsed.Scheme) > 1
}
