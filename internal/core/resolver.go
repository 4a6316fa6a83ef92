package core

import (
	"context"
	"fmt"
	"maps"
	"net/url"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"wsdl-bundler/internal/ports"
	"wsdl-bundler/internal/types"
)

// ResolverCore flattens a WSDL or XSD and everything it imports or
// includes into a set of self-contained documents.
type ResolverCore struct {
	Fetcher ports.DocumentFetcherPort
}

func NewResolverCore(fetcher ports.DocumentFetcherPort) ResolverCore {
	return ResolverCore{Fetcher: fetcher}
}

// Load resolves location and returns the flattened documents. The root
// document is stored under types.DefaultFilename; every wsdl:import target
// is stored under template formatted with a counter that starts at zero for
// each call. On failure no output is returned.
func (r ResolverCore) Load(ctx context.Context, location string, template string) (types.OutputSet, error) {
	if r.Fetcher == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a document fetcher")
	}
	ctx, span := otel.Tracer("").Start(ctx, "Load", trace.WithAttributes(attribute.String("location", location)))
	defer span.End()

	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}
	lc := &loadContext{acquirer: acquirer{fetcher: r.Fetcher}}
	output, err := lc.load(ctx, nil, location, template)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return output, nil
}

// loadContext is the state shared by one Load call and all of its nested
// wsdl:import loads.
type loadContext struct {
	acquirer  acquirer
	nextIndex int
}

func (c *loadContext) nextFilename(template string) string {
	filename := fmt.Sprintf(template, c.nextIndex)
	c.nextIndex++
	return filename
}

func (c *loadContext) load(ctx context.Context, base *url.URL, location string, template string) (output types.OutputSet, err error) {
	registry := newImportRegistry()
	defer registry.Reset()
	defer func() {
		if err != nil {
			output = nil
			err = aggregate(err)
		}
	}()

	docURL, err := ResolveLocation(base, location)
	if err != nil {
		return nil, err
	}
	doc, err := c.acquirer.parse(ctx, docURL, false)
	if err != nil {
		return nil, err
	}

	expander := &schemaExpander{ctx: ctx, acquirer: c.acquirer, registry: registry}
	for _, schema := range elementsByTagNS(doc.Root(), types.XSDNamespace, "schema") {
		registry.Register(attrValue(schema, "targetNamespace"))
		if err := expander.expand(schema, schema, docURL); err != nil {
			return nil, err
		}
	}

	output = types.OutputSet{}
	for _, imp := range elementsByTagNS(doc.Root(), types.WSDLNamespace, "import") {
		filename := c.nextFilename(template)
		nested, err := c.load(ctx, docURL, attrValue(imp, "location"), template)
		if err != nil {
			return nil, err
		}
		imp.CreateAttr("location", filename)
		output[filename] = nested[types.DefaultFilename]
		delete(nested, types.DefaultFilename)
		maps.Copy(output, nested)
		log.Debug().Str("location", docURL.String()).Str("file", filename).Msg("resolved wsdl import")
	}

	data, err := serialize(doc)
	if err != nil {
		return nil, err
	}
	output[types.DefaultFilename] = data
	return output, nil
}
