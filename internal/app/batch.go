package app

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gosimple/slug"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

type batchOutcome struct {
	index  int
	result FlattenResult
	err    error
}

// FlattenBatch flattens every location into its own sub-directory of the
// output directory. Successful bundles are kept when others fail.
func (s Service) FlattenBatch(ctx context.Context, req BatchRequest) (BatchResult, error) {
	if len(req.Locations) == 0 {
		return BatchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one wsdl location is required")
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return BatchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	workers := req.Workers
	if workers <= 0 {
		workers = defaultBatchWorkers
	}

	names := bundleNames(req.Locations)
	p := pool.NewWithResults[batchOutcome]().WithMaxGoroutines(workers)
	for i, location := range req.Locations {
		p.Go(func() batchOutcome {
			result, err := s.Flatten(ctx, FlattenRequest{
				Location:         location,
				FilenameTemplate: req.FilenameTemplate,
				OutputDir:        filepath.Join(outputDir, names[i]),
				RootFilename:     req.RootFilename,
				Fetch:            req.Fetch,
			})
			return batchOutcome{index: i, result: result, err: err}
		})
	}
	outcomes := p.Wait()

	ordered := make([]batchOutcome, len(req.Locations))
	for _, outcome := range outcomes {
		ordered[outcome.index] = outcome
	}
	var result BatchResult
	var errs *multierror.Error
	var firstErr error
	for i, outcome := range ordered {
		if outcome.err != nil {
			log.Error().Err(outcome.err).Str("location", req.Locations[i]).Msg("bundle failed")
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", req.Locations[i], outcome.err))
			if firstErr == nil {
				firstErr = outcome.err
			}
			result.Failed++
			continue
		}
		result.Bundles = append(result.Bundles, outcome.result)
	}
	if errs != nil {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeOf(firstErr)).
			WithMsg(fmt.Sprintf("%d of %d bundles failed", result.Failed, len(req.Locations))).
			WithCause(errs.ErrorOrNil())
	}
	return result, nil
}

// bundleNames derives a unique directory name per location from its file
// name.
func bundleNames(locations []string) []string {
	names := make([]string, len(locations))
	counts := map[string]int{}
	taken := map[string]struct{}{}
	for i, location := range locations {
		base := slug.Make(locationStem(location))
		if base == "" {
			base = "bundle"
		}
		counts[base]++
		name := base
		if counts[base] > 1 {
			name = base + "-" + strconv.Itoa(counts[base])
		}
		for {
			if _, exists := taken[name]; !exists {
				break
			}
			counts[base]++
			name = base + "-" + strconv.Itoa(counts[base])
		}
		taken[name] = struct{}{}
		names[i] = name
	}
	return names
}

func locationStem(location string) string {
	name := filepath.Base(location)
	if isURL(location) {
		parsed, err := url.Parse(location)
		if err != nil {
			return location
		}
		name = path.Base(parsed.Path)
		if name == "/" || name == "." {
			return parsed.Host
		}
	}
	return strings.TrimSuffix(name, path.Ext(name))
}
