package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"wsdl-bundler/internal/types"
)

func TestOutputFileAdapterWritesBundle(t *testing.T) {
	dir := t.TempDir()
	adapter := NewOutputFileAdapter(dir, "")
	adapter.Now = func() time.Time { return time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC) }

	set := types.OutputSet{
		types.DefaultFilename: []byte("<definitions/>"),
		"import1.wsdl":        []byte("<b/>"),
		"import0.wsdl":        []byte("<a/>"),
	}
	manifest, err := adapter.WriteBundle("/src/service.wsdl", "import%d.wsdl", set)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"service.wsdl", "import0.wsdl", "import1.wsdl"}, manifest.Files()); diff != "" {
		t.Fatalf("unexpected bundle files (-want +got):\n%s", diff)
	}
	root, err := os.ReadFile(filepath.Join(dir, "service.wsdl"))
	require.NoError(t, err)
	assert.Equal(t, "<definitions/>", string(root))

	sum := sha256.Sum256([]byte("<a/>"))
	assert.Equal(t, hex.EncodeToString(sum[:]), manifest.Imports[0].SHA256)
	assert.Equal(t, 4, manifest.Imports[0].Bytes)

	content, err := os.ReadFile(filepath.Join(dir, ManifestFilename))
	require.NoError(t, err)
	var decoded types.Manifest
	require.NoError(t, yaml.Unmarshal(content, &decoded))
	if diff := cmp.Diff(manifest, decoded); diff != "" {
		t.Fatalf("unexpected manifest (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2026-01-27T00:00:00Z", decoded.GeneratedAt)
}

func TestOutputFileAdapterNestedFilenames(t *testing.T) {
	dir := t.TempDir()
	adapter := NewOutputFileAdapter(dir, "root.wsdl")
	_, err := adapter.WriteBundle("src", "wsdl/part%d.wsdl", types.OutputSet{
		types.DefaultFilename: []byte("<r/>"),
		"wsdl/part0.wsdl":     []byte("<p/>"),
	})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "wsdl", "part0.wsdl"))
	require.NoError(t, err)
}

func TestOutputFileAdapterRejectsBadSets(t *testing.T) {
	dir := t.TempDir()
	adapter := NewOutputFileAdapter(dir, "service.wsdl")

	_, err := adapter.WriteBundle("src", "t%d", types.OutputSet{"import0.wsdl": []byte("<a/>")})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = adapter.WriteBundle("src", "t%d", types.OutputSet{
		types.DefaultFilename: []byte("<r/>"),
		"service.wsdl":        []byte("<a/>"),
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeAlreadyExists, errbuilder.CodeOf(err))

	_, err = adapter.WriteBundle("src", "t%d", types.OutputSet{
		types.DefaultFilename: []byte("<r/>"),
		"../escape.wsdl":      []byte("<a/>"),
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = NewOutputFileAdapter("", "").WriteBundle("src", "t%d", types.OutputSet{types.DefaultFilename: []byte("<r/>")})
	require.Error(t, err)
}
