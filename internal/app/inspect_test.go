package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectFlattenedBundle(t *testing.T) {
	location := writeServiceFixture(t, t.TempDir())
	out := t.TempDir()
	svc := NewService()
	_, err := svc.Flatten(t.Context(), FlattenRequest{Location: location, OutputDir: out})
	require.NoError(t, err)

	result, err := svc.Inspect(InspectRequest{OutputDir: out})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Unresolved)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, []string{"import0.wsdl"}, result.Documents[0].WSDLImports)
	assert.Equal(t, 0, result.Documents[0].Includes)
	if diff := cmp.Diff([]string{"http://example/common", "http://example/orders"}, result.Namespaces()); diff != "" {
		t.Fatalf("unexpected namespaces (-want +got):\n%s", diff)
	}
}

func TestInspectReportsLeftoverLocations(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "bundle.yaml"), []byte("root:\n  file: service.wsdl\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "service.wsdl"), []byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:include schemaLocation="a.xsd"/></xs:schema>`), 0644))

	result, err := NewService().Inspect(InspectRequest{OutputDir: out})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Unresolved)
}

func TestInspectRequiresOutputDir(t *testing.T) {
	_, err := NewService().Inspect(InspectRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
