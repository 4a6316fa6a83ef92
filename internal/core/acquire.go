package core

import (
	"context"
	"net/url"

	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html/charset"

	"wsdl-bundler/internal/ports"
)

type acquirer struct {
	fetcher ports.DocumentFetcherPort
}

// parse fetches location and returns its document. With cleanup set,
// comments and xsd:annotation elements are removed from the root subtree.
func (a acquirer) parse(ctx context.Context, location *url.URL, cleanup bool) (*etree.Document, error) {
	ctx, span := otel.Tracer("").Start(ctx, "ParseDocument", trace.WithAttributes(attribute.String("location", location.String())))
	defer span.End()

	data, err := a.fetcher.Fetch(ctx, location)
	if err != nil {
		span.RecordError(err)
		return nil, fetchError(location.String(), err)
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		span.RecordError(err)
		return nil, newError(KindParseError, "malformed XML in "+location.String(), err)
	}
	if doc.Root() == nil {
		return nil, newError(KindParseError, "no root element in "+location.String(), nil)
	}
	if cleanup {
		cleanupSchema(doc.Root())
	}
	log.Debug().Str("location", location.String()).Int("bytes", len(data)).Msg("parsed document")
	return doc, nil
}

func cleanupSchema(el *etree.Element) {
	for i := len(el.Child) - 1; i >= 0; i-- {
		switch child := el.Child[i].(type) {
		case *etree.Comment:
			el.RemoveChildAt(i)
		case *etree.Element:
			if isXSD(child, "annotation") {
				el.RemoveChildAt(i)
				continue
			}
			cleanupSchema(child)
		}
	}
}

const xmlDeclaration = `version="1.0" encoding="UTF-8"`

// serialize writes doc as UTF-8. Any declared source encoding is replaced,
// since parsing already decoded the content.
func serialize(doc *etree.Document) ([]byte, error) {
	hasDeclaration := false
	for _, t := range doc.Child {
		if pi, ok := t.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = xmlDeclaration
			hasDeclaration = true
			break
		}
	}
	if !hasDeclaration {
		doc.InsertChildAt(0, etree.NewCharData("\n"))
		doc.InsertChildAt(0, etree.NewProcInst("xml", xmlDeclaration))
	}
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, newError(KindTransformError, "failed to serialize document", err)
	}
	return data, nil
}
