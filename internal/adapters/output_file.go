package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"wsdl-bundler/internal/ports"
	"wsdl-bundler/internal/types"
)

const ManifestFilename = "bundle.yaml"

const DefaultRootFilename = "service.wsdl"

type OutputFileAdapter struct {
	Dir          string
	RootFilename string
	Now          func() time.Time
}

func NewOutputFileAdapter(dir string, rootFilename string) OutputFileAdapter {
	if strings.TrimSpace(rootFilename) == "" {
		rootFilename = DefaultRootFilename
	}
	return OutputFileAdapter{Dir: dir, RootFilename: rootFilename, Now: time.Now}
}

func (a OutputFileAdapter) WriteBundle(source string, template string, set types.OutputSet) (types.Manifest, error) {
	root, ok := set[types.DefaultFilename]
	if !ok {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output set has no root document")
	}
	rootFile := a.rootFilename()
	imports := set.Imports()
	for _, name := range imports {
		if filepath.Clean(name) == filepath.Clean(rootFile) || name == ManifestFilename {
			return types.Manifest{}, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg("generated filename collides with " + name)
		}
	}

	manifest := types.Manifest{
		Source:      source,
		Template:    template,
		GeneratedAt: a.now().UTC().Format(time.RFC3339),
	}
	entry, err := a.writeDocument(rootFile, root)
	if err != nil {
		return types.Manifest{}, err
	}
	manifest.Root = entry
	for _, name := range imports {
		entry, err := a.writeDocument(name, set[name])
		if err != nil {
			return types.Manifest{}, err
		}
		manifest.Imports = append(manifest.Imports, entry)
	}

	path, err := a.ensurePath(ManifestFilename)
	if err != nil {
		return types.Manifest{}, err
	}
	content, err := yaml.Marshal(manifest)
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode bundle manifest").
			WithCause(err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write bundle manifest").
			WithCause(err)
	}
	log.Debug().Str("dir", a.Dir).Int("files", len(manifest.Files())).Msg("wrote bundle")
	return manifest, nil
}

func (a OutputFileAdapter) writeDocument(name string, content []byte) (types.ManifestEntry, error) {
	path, err := a.ensurePath(name)
	if err != nil {
		return types.ManifestEntry{}, err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return types.ManifestEntry{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + name).
			WithCause(err)
	}
	sum := sha256.Sum256(content)
	return types.ManifestEntry{
		File:   filepath.ToSlash(name),
		Bytes:  len(content),
		SHA256: hex.EncodeToString(sum[:]),
	}, nil
}

func (a OutputFileAdapter) rootFilename() string {
	if strings.TrimSpace(a.RootFilename) == "" {
		return DefaultRootFilename
	}
	return a.RootFilename
}

func (a OutputFileAdapter) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a OutputFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	cleaned := filepath.Clean(filepath.FromSlash(filename))
	if filepath.IsAbs(cleaned) || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("filename escapes output directory: " + filename)
	}
	path := filepath.Join(a.Dir, cleaned)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return path, nil
}

var _ ports.OutputPort = OutputFileAdapter{}
