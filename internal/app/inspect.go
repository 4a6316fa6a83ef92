package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	manifest, err := s.OutputReader.ReadManifest(outputDir)
	if err != nil {
		return InspectResult{}, err
	}

	result := InspectResult{Manifest: manifest}
	for _, file := range manifest.Files() {
		summary, err := s.OutputReader.SummarizeDocument(outputDir, file)
		if err != nil {
			return InspectResult{}, err
		}
		result.Unresolved += len(summary.Unresolved)
		result.Documents = append(result.Documents, summary)
	}
	return result, nil
}

// Namespaces lists the distinct schema target namespaces across the bundle.
func (r InspectResult) Namespaces() []string {
	seen := map[string]struct{}{}
	var namespaces []string
	for _, doc := range r.Documents {
		for _, ns := range doc.TargetNamespaces {
			if _, ok := seen[ns]; ok {
				continue
			}
			seen[ns] = struct{}{}
			namespaces = append(namespaces, ns)
		}
	}
	return namespaces
}
