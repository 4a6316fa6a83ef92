package ports

import "wsdl-bundler/internal/types"

type OutputReaderPort interface {
	ReadManifest(dir string) (types.Manifest, error)
	SummarizeDocument(dir string, file string) (types.DocumentSummary, error)
}
