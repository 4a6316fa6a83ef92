package types

// CatalogFile is the top-level structure of a catalog.yaml file. It maps
// location prefixes to local mirrors so documents can be flattened offline.
//
// Multiple catalog files can be layered. Later layers override earlier ones
// on a per-prefix basis.
type CatalogFile struct {
	// CatalogVersion identifies the file format version.
	CatalogVersion string `yaml:"catalog_version"`

	// Rewrites maps a location prefix to its replacement. Replacements
	// are absolute URLs or paths relative to the catalog file.
	// Example: "http://schemas.example.com/" -> "mirror/".
	Rewrites map[string]string `yaml:"rewrites"`
}
