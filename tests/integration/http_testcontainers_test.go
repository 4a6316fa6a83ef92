//go:build integration

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"wsdl-bundler/internal/app"
	"wsdl-bundler/tests/testutil"
)

var fixtureFiles = []string{
	"service.wsdl",
	"faults.wsdl",
	"xsd/common.xsd",
	"xsd/order.xsd",
	"xsd/address.xsd",
}

func TestFlattenOverHTTPWithTestcontainers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers e2e in short mode")
	}

	ctx := t.Context()
	endpoint, cleanup := startFixtureServer(ctx, t)
	t.Cleanup(cleanup)

	service := app.NewService()
	result, err := service.Flatten(ctx, app.FlattenRequest{
		Location:  endpoint + "/service.wsdl",
		OutputDir: t.TempDir(),
		Fetch:     app.FetchOptions{TimeoutSec: 10, Retries: 2, RetryDelayMs: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"service.wsdl", "import0.wsdl"}, result.Files)

	rootDoc := testutil.ParseXMLFile(t, filepath.Join(result.OutputDir, "service.wsdl"))
	assert.Equal(t, []string{"urn:example:common", "urn:example:orders"}, testutil.TargetNamespaces(rootDoc))
	assert.Empty(t, xmlquery.Find(rootDoc, "//*[local-name()='include']"))

	inspected, err := service.Inspect(app.InspectRequest{OutputDir: result.OutputDir})
	require.NoError(t, err)
	assert.Equal(t, endpoint+"/service.wsdl", inspected.Manifest.Source)
	assert.Zero(t, inspected.Unresolved)
}

func TestFlattenMissingDocumentOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers e2e in short mode")
	}

	ctx := t.Context()
	endpoint, cleanup := startFixtureServer(ctx, t)
	t.Cleanup(cleanup)

	service := app.NewService()
	_, err := service.Flatten(ctx, app.FlattenRequest{
		Location:  endpoint + "/missing.wsdl",
		OutputDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.wsdl")
}

func startFixtureServer(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()
	files := make([]testcontainers.ContainerFile, 0, len(fixtureFiles))
	for _, name := range fixtureFiles {
		files = append(files, testcontainers.ContainerFile{
			HostFilePath:      testutil.FixturePath(t, "orders", filepath.FromSlash(name)),
			ContainerFilePath: "/srv/" + name,
			FileMode:          0o644,
		})
	}
	req := testcontainers.ContainerRequest{
		Image:        "python:3.12-alpine",
		ExposedPorts: []string{"8080/tcp"},
		Files:        files,
		Cmd:          []string{"python", "-m", "http.server", "8080", "--directory", "/srv"},
		WaitingFor:   wait.ForListeningPort("8080/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return endpoint, cleanup
}
