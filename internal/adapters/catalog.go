package adapters

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"wsdl-bundler/internal/ports"
	"wsdl-bundler/internal/types"
)

// CatalogAdapter implements CatalogPort using layered catalog.yaml files.
// Each call to LoadCatalog merges new rewrites into the internal table;
// later loads override earlier ones per prefix.
type CatalogAdapter struct {
	// merged holds the flattened rewrite table after all layers.
	merged map[string]string

	// layers tracks load order for debugging / provenance.
	layers []string
}

// NewCatalogAdapter returns an empty catalog ready for loading.
func NewCatalogAdapter() *CatalogAdapter {
	return &CatalogAdapter{
		merged: make(map[string]string),
	}
}

// LoadCatalog reads a catalog.yaml file and merges its rewrites.
func (a *CatalogAdapter) LoadCatalog(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read catalog file: " + path).
			WithCause(err)
	}

	var catalog types.CatalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse catalog file: " + path).
			WithCause(err)
	}

	if catalog.CatalogVersion == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("catalog file missing catalog_version: " + path)
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid catalog path: " + path).
			WithCause(err)
	}
	for prefix, replacement := range catalog.Rewrites {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		target := strings.TrimSpace(replacement)
		if target == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("catalog prefix '" + prefix + "' has empty replacement in " + path)
		}
		target = catalogTarget(baseDir, target)

		if _, exists := a.merged[prefix]; exists {
			log.Debug().
				Str("prefix", prefix).
				Str("layer", path).
				Msg("catalog prefix overridden by later layer")
		}
		a.merged[prefix] = target
	}

	a.layers = append(a.layers, path)
	log.Debug().
		Str("path", path).
		Int("rewrites", len(catalog.Rewrites)).
		Int("total", len(a.merged)).
		Msg("catalog layer loaded")
	return nil
}

// Rewrite applies the longest matching prefix to location.
func (a *CatalogAdapter) Rewrite(location string) (string, bool) {
	prefixes := make([]string, 0, len(a.merged))
	for prefix := range a.merged {
		if strings.HasPrefix(location, prefix) {
			prefixes = append(prefixes, prefix)
		}
	}
	if len(prefixes) == 0 {
		return location, false
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	best := prefixes[0]
	return a.merged[best] + strings.TrimPrefix(location, best), true
}

// Layers returns the catalog files in load order.
func (a *CatalogAdapter) Layers() []string {
	return append([]string(nil), a.layers...)
}

// catalogTarget turns a replacement into a URL prefix. Filesystem paths are
// resolved against the catalog directory and keep a trailing slash.
func catalogTarget(baseDir string, target string) string {
	if parsed, err := url.Parse(target); err == nil && len(parsed.Scheme) > 1 {
		return target
	}
	dir := strings.HasSuffix(target, "/") || strings.HasSuffix(target, string(filepath.Separator))
	path := filepath.FromSlash(target)
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	resolved := (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
	if dir && !strings.HasSuffix(resolved, "/") {
		resolved += "/"
	}
	return resolved
}

// CatalogFetcher rewrites each location through Catalog before handing it
// to Next. Relative references keep resolving against the original
// location, so the mirror only has to reproduce the remote layout.
type CatalogFetcher struct {
	Catalog ports.CatalogPort
	Next    ports.DocumentFetcherPort
}

func (f CatalogFetcher) Fetch(ctx context.Context, location *url.URL) ([]byte, error) {
	if location == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("document location is required")
	}
	rewritten, ok := f.Catalog.Rewrite(location.String())
	if !ok {
		return f.Next.Fetch(ctx, location)
	}
	target, err := url.Parse(rewritten)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid catalog rewrite for " + location.String()).
			WithCause(err)
	}
	log.Debug().
		Str("location", location.String()).
		Str("rewritten", rewritten).
		Msg("location rewritten by catalog")
	return f.Next.Fetch(ctx, target)
}
