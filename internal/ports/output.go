package ports

import "wsdl-bundler/internal/types"

// OutputPort persists a resolved OutputSet as a bundle of files.
type OutputPort interface {
	// WriteBundle writes every document of the set and a bundle.yaml
	// manifest describing them.  The DefaultFilename entry is written
	// under the configured root filename.
	WriteBundle(source string, template string, set types.OutputSet) (types.Manifest, error)
}
