package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsdl-bundler/internal/app"
	"wsdl-bundler/tests/testutil"
)

func flattenFixture(t *testing.T) app.FlattenResult {
	t.Helper()
	service := app.NewService()
	service.Clock = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	result, err := service.Flatten(t.Context(), app.FlattenRequest{
		Location:  testutil.FixturePath(t, "orders", "service.wsdl"),
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)
	return result
}

// TestGoldenFlatten flattens the orders fixture and compares every bundle
// document against committed golden files. Missing golden files are
// written so they can be committed.
//
// To update golden files after an intentional change, delete the
// testdata/golden/ directory and re-run the test.
func TestGoldenFlatten(t *testing.T) {
	root := testutil.RepoRoot(t)
	goldenDir := filepath.Join(root, "tests", "integration", "testdata", "golden")
	result := flattenFixture(t)

	for _, name := range result.Files {
		t.Run(name, func(t *testing.T) {
			actual, err := os.ReadFile(filepath.Join(result.OutputDir, name))
			require.NoError(t, err)

			goldenPath := filepath.Join(goldenDir, name)
			if _, statErr := os.Stat(goldenPath); os.IsNotExist(statErr) {
				require.NoError(t, os.MkdirAll(goldenDir, 0o755))
				require.NoError(t, os.WriteFile(goldenPath, actual, 0o644))
				t.Logf("golden file written: %s (commit it)", goldenPath)
				return
			}

			expected, err := os.ReadFile(goldenPath)
			require.NoError(t, err)
			assert.Equal(t, string(expected), string(actual),
				"golden mismatch for %s -- delete testdata/golden/ and re-run to regenerate", name)
		})
	}
}

// TestGoldenFlattenStructure checks the structural properties of the
// bundle independent of exact serialization.
func TestGoldenFlattenStructure(t *testing.T) {
	result := flattenFixture(t)
	assert.Equal(t, []string{"service.wsdl", "import0.wsdl"}, result.Files)

	rootDoc := testutil.ParseXMLFile(t, filepath.Join(result.OutputDir, "service.wsdl"))
	faultsDoc := testutil.ParseXMLFile(t, filepath.Join(result.OutputDir, "import0.wsdl"))

	t.Run("imported schemas are spliced before their importer", func(t *testing.T) {
		want := []string{"urn:example:common", "urn:example:orders"}
		if diff := cmp.Diff(want, testutil.TargetNamespaces(rootDoc)); diff != "" {
			t.Fatalf("root schemas mismatch (-want +got):\n%s", diff)
		}
		want = []string{"urn:example:common", "urn:example:faults"}
		if diff := cmp.Diff(want, testutil.TargetNamespaces(faultsDoc)); diff != "" {
			t.Fatalf("faults schemas mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no references remain", func(t *testing.T) {
		for _, doc := range []*xmlquery.Node{rootDoc, faultsDoc} {
			assert.Empty(t, xmlquery.Find(doc, "//*[local-name()='include']"))
			assert.Empty(t, xmlquery.Find(doc, "//*[local-name()='import'][@schemaLocation]"))
		}
	})

	t.Run("wsdl import points at the generated file", func(t *testing.T) {
		imp := xmlquery.FindOne(rootDoc, "//*[local-name()='definitions']/*[local-name()='import']")
		require.NotNil(t, imp)
		assert.Equal(t, "import0.wsdl", imp.SelectAttr("location"))
	})

	t.Run("included types land in the including schema", func(t *testing.T) {
		orders := xmlquery.FindOne(rootDoc, "//*[local-name()='schema'][@targetNamespace='urn:example:orders']")
		require.NotNil(t, orders)
		var names []string
		for _, node := range xmlquery.Find(orders, "./*[local-name()='complexType']") {
			names = append(names, node.SelectAttr("name"))
		}
		assert.Equal(t, []string{"Address", "Order"}, names)

		shipTo := xmlquery.FindOne(orders, ".//*[local-name()='element'][@name='shipTo']")
		require.NotNil(t, shipTo)
		assert.Equal(t, "tns:Address", shipTo.SelectAttr("type"))
		street := xmlquery.FindOne(orders, ".//*[local-name()='element'][@name='street']")
		require.NotNil(t, street)
		assert.Equal(t, "xs:string", street.SelectAttr("type"))
	})

	t.Run("annotations are dropped from imported schemas", func(t *testing.T) {
		assert.Empty(t, xmlquery.Find(rootDoc, "//*[local-name()='annotation']"))
	})
}

func TestInspectFlattenedFixture(t *testing.T) {
	result := flattenFixture(t)
	service := app.NewService()
	inspected, err := service.Inspect(app.InspectRequest{OutputDir: result.OutputDir})
	require.NoError(t, err)

	assert.Equal(t, "service.wsdl", inspected.Manifest.Root.File)
	assert.Equal(t, "2024-01-02T03:04:05Z", inspected.Manifest.GeneratedAt)
	assert.Zero(t, inspected.Unresolved)
	want := []string{"urn:example:common", "urn:example:orders", "urn:example:faults"}
	if diff := cmp.Diff(want, inspected.Namespaces()); diff != "" {
		t.Fatalf("namespaces mismatch (-want +got):\n%s", diff)
	}
}
