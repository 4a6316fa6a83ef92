package adapters

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/antchfx/xmlquery"
	"gopkg.in/yaml.v3"

	"wsdl-bundler/internal/ports"
	"wsdl-bundler/internal/types"
)

const (
	xpathSchemas     = "//*[local-name()='schema' and namespace-uri()='" + types.XSDNamespace + "']"
	xpathWSDLImports = "//*[local-name()='import' and namespace-uri()='" + types.WSDLNamespace + "']"
	xpathXSDImports  = "//*[local-name()='import' and namespace-uri()='" + types.XSDNamespace + "']"
	xpathXSDIncludes = "//*[local-name()='include' and namespace-uri()='" + types.XSDNamespace + "']"
)

type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

func (a OutputReaderAdapter) ReadManifest(dir string) (types.Manifest, error) {
	content, err := os.ReadFile(filepath.Join(dir, ManifestFilename))
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(ManifestFilename + " not found").
			WithCause(err)
	}
	var manifest types.Manifest
	if err := yaml.Unmarshal(content, &manifest); err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid " + ManifestFilename).
			WithCause(err)
	}
	if strings.TrimSpace(manifest.Root.File) == "" {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(ManifestFilename + " missing root file")
	}
	manifest.GeneratedAt = normalizeGeneratedAt(manifest.GeneratedAt)
	return manifest, nil
}

func (a OutputReaderAdapter) SummarizeDocument(dir string, file string) (types.DocumentSummary, error) {
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(file)))
	if err != nil {
		return types.DocumentSummary{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(file + " not found").
			WithCause(err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return types.DocumentSummary{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid XML in " + file).
			WithCause(err)
	}

	summary := types.DocumentSummary{File: file}
	schemas := xmlquery.Find(doc, xpathSchemas)
	summary.Schemas = len(schemas)
	for _, schema := range schemas {
		summary.TargetNamespaces = append(summary.TargetNamespaces, schema.SelectAttr("targetNamespace"))
	}
	for _, imp := range xmlquery.Find(doc, xpathWSDLImports) {
		summary.WSDLImports = append(summary.WSDLImports, imp.SelectAttr("location"))
	}
	for _, imp := range xmlquery.Find(doc, xpathXSDImports) {
		if location := imp.SelectAttr("schemaLocation"); location != "" {
			summary.Unresolved = append(summary.Unresolved, location)
		}
	}
	includes := xmlquery.Find(doc, xpathXSDIncludes)
	summary.Includes = len(includes)
	for _, inc := range includes {
		if location := inc.SelectAttr("schemaLocation"); location != "" {
			summary.Unresolved = append(summary.Unresolved, location)
		}
	}
	sort.Strings(summary.Unresolved)
	return summary, nil
}

var _ ports.OutputReaderPort = OutputReaderAdapter{}
