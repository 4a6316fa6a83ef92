// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// FixturePath joins parts below the repository's fixtures directory.
func FixturePath(t *testing.T, parts ...string) string {
	t.Helper()
	return filepath.Join(append([]string{RepoRoot(t), "fixtures"}, parts...)...)
}

// ParseXMLFile parses path with xmlquery for XPath assertions.
func ParseXMLFile(t *testing.T, path string) *xmlquery.Node {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := xmlquery.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	return doc
}

// TargetNamespaces returns the targetNamespace of every schema in doc, in
// document order.
func TargetNamespaces(doc *xmlquery.Node) []string {
	var namespaces []string
	for _, schema := range xmlquery.Find(doc, "//*[local-name()='schema']") {
		namespaces = append(namespaces, schema.SelectAttr("targetNamespace"))
	}
	return namespaces
}
