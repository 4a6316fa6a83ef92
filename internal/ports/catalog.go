package ports

// CatalogPort rewrites document locations before they are fetched.
//
// The catalog supports layered overrides: each call to LoadCatalog adds a
// new layer, and when two layers define the same prefix the last-loaded
// layer wins. The longest matching prefix decides a rewrite.
type CatalogPort interface {
	// LoadCatalog loads a catalog.yaml file and merges its rewrites.
	LoadCatalog(path string) error

	// Rewrite returns the replacement location, or (location, false) when
	// no prefix matches.
	Rewrite(location string) (string, bool)
}
