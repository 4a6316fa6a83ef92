package types

import "sort"

// DefaultFilename is the OutputSet key of the top-level document.
const DefaultFilename = ""

// OutputSet maps a generated filename to a serialized XML document.
type OutputSet map[string][]byte

// Imports returns the generated (non-root) filenames in sorted order.
func (o OutputSet) Imports() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		if name == DefaultFilename {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Root returns the serialized top-level document.
func (o OutputSet) Root() []byte {
	return o[DefaultFilename]
}

type ManifestEntry struct {
	File   string `yaml:"file"`
	Bytes  int    `yaml:"bytes"`
	SHA256 string `yaml:"sha256"`
}

type Manifest struct {
	Source      string          `yaml:"source"`
	Template    string          `yaml:"template"`
	GeneratedAt string          `yaml:"generated_at"`
	Root        ManifestEntry   `yaml:"root"`
	Imports     []ManifestEntry `yaml:"imports,omitempty"`
}

// Files lists every file of the bundle, root first.
func (m Manifest) Files() []string {
	files := []string{m.Root.File}
	for _, entry := range m.Imports {
		files = append(files, entry.File)
	}
	return files
}

// DocumentSummary describes one document of a written bundle.
type DocumentSummary struct {
	File             string
	Schemas          int
	TargetNamespaces []string
	WSDLImports      []string
	// Unresolved lists schemaLocation values still present on
	// xsd:import or xsd:include elements.
	Unresolved []string
	Includes   int
}
