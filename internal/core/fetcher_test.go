package core

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

const (
	xsdNS  = "http://www.w3.org/2001/XMLSchema"
	wsdlNS = "http://schemas.xmlsoap.org/wsdl/"
)

type memoryFetcher struct {
	docs  map[string]string
	calls map[string]int
}

func newMemoryFetcher(docs map[string]string) *memoryFetcher {
	return &memoryFetcher{docs: docs, calls: map[string]int{}}
}

func (f *memoryFetcher) Fetch(_ context.Context, location *url.URL) ([]byte, error) {
	key := location.String()
	f.calls[key]++
	doc, ok := f.docs[key]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("document not found: " + key)
	}
	return []byte(doc), nil
}

func wsdlWithSchemas(schemas ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<wsdl:definitions xmlns:wsdl="` + wsdlNS + `" xmlns:xs="` + xsdNS + `" targetNamespace="http://example/service">
  <wsdl:types>
    ` + strings.Join(schemas, "\n    ") + `
  </wsdl:types>
</wsdl:definitions>
`
}

func readDocument(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	require.NotNil(t, doc.Root())
	return doc
}

func schemasByNamespace(t *testing.T, data []byte) map[string][]*etree.Element {
	t.Helper()
	doc := readDocument(t, data)
	found := map[string][]*etree.Element{}
	for _, schema := range elementsByTagNS(doc.Root(), xsdNS, "schema") {
		ns := attrValue(schema, "targetNamespace")
		found[ns] = append(found[ns], schema)
	}
	return found
}

func childNames(el *etree.Element, local string) []string {
	var names []string
	for _, child := range el.ChildElements() {
		if child.Tag == local {
			names = append(names, attrValue(child, "name"))
		}
	}
	return names
}
