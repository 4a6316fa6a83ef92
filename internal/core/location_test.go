package core

import (
	"net/url"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	fileBase, err := url.Parse("file:///schemas/service.wsdl")
	require.NoError(t, err)
	httpBase, err := url.Parse("http://example.com/ws/service?wsdl")
	require.NoError(t, err)

	cases := []struct {
		name string
		base *url.URL
		spec string
		want string
	}{
		{name: "absolute url", spec: "http://example.com/a.wsdl", want: "http://example.com/a.wsdl"},
		{name: "absolute path without base", spec: "/schemas/a.xsd", want: "file:///schemas/a.xsd"},
		{name: "relative against file base", base: fileBase, spec: "types/a.xsd", want: "file:///schemas/types/a.xsd"},
		{name: "parent against file base", base: fileBase, spec: "../common/a.xsd", want: "file:///common/a.xsd"},
		{name: "relative against http base", base: httpBase, spec: "xsd/a.xsd", want: "http://example.com/ws/xsd/a.xsd"},
		{name: "absolute url ignores base", base: fileBase, spec: "https://other.example/b.xsd", want: "https://other.example/b.xsd"},
		{name: "drive path", spec: `C:/schemas/a.xsd`, want: "file:///C:/schemas/a.xsd"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveLocation(tc.base, tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestResolveLocationRelativePathWithoutBase(t *testing.T) {
	_, err := ResolveLocation(nil, "schemas/a.xsd")
	require.Error(t, err)
	assert.Equal(t, KindInvalidLocation, KindOf(err))
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestResolveLocationEmpty(t *testing.T) {
	_, err := ResolveLocation(nil, "  ")
	require.Error(t, err)
	assert.Equal(t, KindInvalidLocation, KindOf(err))
}

func TestValidateTemplate(t *testing.T) {
	for _, template := range []string{"import%d.wsdl", "part-%03d.wsdl", "100%%-%d.xsd"} {
		assert.NoError(t, ValidateTemplate(template), template)
	}
	for _, template := range []string{"", "import.wsdl", "import%s.wsdl", "a%d-b%d.wsdl", "trailing%"} {
		err := ValidateTemplate(template)
		require.Error(t, err, template)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err), template)
	}
}
