package core

import (
	"context"
	"net/url"

	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"

	"wsdl-bundler/internal/types"
)

type schemaExpander struct {
	ctx      context.Context
	acquirer acquirer
	registry *importRegistry
}

// expand resolves the imports and includes among the children of current.
// owner is the schema that receives spliced imports as preceding siblings
// and whose target namespace keys the include registry.
func (x *schemaExpander) expand(owner *etree.Element, current *etree.Element, source *url.URL) error {
	queue := current.ChildElements()
	for len(queue) > 0 {
		child := queue[0]
		queue = queue[1:]
		if child.Parent() != current || namespaceOf(child) != types.XSDNamespace {
			continue
		}
		switch child.Tag {
		case "import":
			if err := x.importSchema(owner, child, source); err != nil {
				return err
			}
		case "include":
			inserted, err := x.include(owner, current, child, source)
			if err != nil {
				return err
			}
			queue = append(inserted, queue...)
		}
	}
	return nil
}

func (x *schemaExpander) importSchema(owner *etree.Element, imp *etree.Element, source *url.URL) error {
	location := attrValue(imp, "schemaLocation")
	namespace := attrValue(imp, "namespace")
	if location != "" && namespace != "" {
		if err := x.resolveImport(owner, namespace, location, source); err != nil {
			return err
		}
		imp.RemoveAttr("schemaLocation")
	}
	relocateImport(imp)
	return nil
}

func (x *schemaExpander) resolveImport(owner *etree.Element, namespace string, location string, source *url.URL) error {
	schemaURL, err := ResolveLocation(source, location)
	if err != nil {
		return err
	}

	if !x.registry.Registered(namespace) {
		parent := owner.Parent()
		if parent == nil || parent.Parent() == nil {
			return newError(KindTransformError, "cannot place imported schema "+namespace+" beside the document root", nil)
		}
		doc, err := x.acquirer.parse(x.ctx, schemaURL, true)
		if err != nil {
			return err
		}
		imported := doc.Root()
		moveWithNamespaces(imported, parent, owner)
		x.registry.Register(namespace)
		log.Debug().Str("namespace", namespace).Str("location", schemaURL.String()).Msg("spliced imported schema")
		return x.expand(imported, imported, schemaURL)
	}

	existing := siblingSchema(owner, namespace)
	if existing == nil {
		log.Debug().Str("namespace", namespace).Msg("namespace already imported, no schema to merge into")
		return nil
	}
	doc, err := x.acquirer.parse(x.ctx, schemaURL, true)
	if err != nil {
		return err
	}
	duplicate := doc.Root()
	if err := x.expand(existing, duplicate, schemaURL); err != nil {
		return err
	}
	for _, t := range append([]etree.Token(nil), duplicate.Child...) {
		if el, ok := t.(*etree.Element); ok {
			moveWithNamespaces(el, existing, nil)
			continue
		}
		insertBefore(existing, t, nil)
	}
	log.Debug().Str("namespace", namespace).Str("location", schemaURL.String()).Msg("merged schema into existing namespace")
	return nil
}

func siblingSchema(owner *etree.Element, namespace string) *etree.Element {
	parent := owner.Parent()
	if parent == nil {
		return nil
	}
	for _, schema := range elementsByTagNS(parent, types.XSDNamespace, "schema") {
		if attrValue(schema, "targetNamespace") == namespace {
			return schema
		}
	}
	return nil
}

// relocateImport moves imp right after the closest preceding xsd:import,
// or in front of the first child element when there is none.
func relocateImport(imp *etree.Element) {
	parent := imp.Parent()
	for i := imp.Index() - 1; i >= 0; i-- {
		if el, ok := parent.Child[i].(*etree.Element); ok && isXSD(el, "import") {
			var ref etree.Token
			if i+1 < len(parent.Child) {
				ref = parent.Child[i+1]
			}
			insertBefore(parent, imp, ref)
			return
		}
	}
	insertBefore(parent, imp, firstChildElement(parent))
}

// include merges the schema behind inc into current and returns the merged
// elements so the walk continues over them.
func (x *schemaExpander) include(owner *etree.Element, current *etree.Element, inc *etree.Element, source *url.URL) ([]*etree.Element, error) {
	location := attrValue(inc, "schemaLocation")
	if location == "" {
		return nil, newError(KindInvalidInclude, "schema include has no schemaLocation", nil)
	}
	schemaURL, err := ResolveLocation(source, location)
	if err != nil {
		return nil, err
	}

	var inserted []*etree.Element
	targetNamespace := attrValue(owner, "targetNamespace")
	if x.registry.MarkIncluded(targetNamespace, schemaURL.String()) {
		doc, err := x.acquirer.parse(x.ctx, schemaURL, true)
		if err != nil {
			return nil, err
		}
		included := doc.Root()
		includeNamespace := attrValue(included, "targetNamespace")
		if includeNamespace != "" && includeNamespace != targetNamespace {
			return nil, newError(KindNamespaceMismatch,
				"included schema "+schemaURL.String()+" has namespace "+includeNamespace+", expected "+targetNamespace, nil)
		}
		if err := x.expand(owner, included, schemaURL); err != nil {
			return nil, err
		}

		mapping := mergeIncludedAttributes(current, included)
		if includeNamespace == "" {
			qualifyChameleon(current, included, targetNamespace, mapping)
		}
		for _, t := range append([]etree.Token(nil), included.Child...) {
			if el, ok := t.(*etree.Element); ok {
				fixPrefixes(el, mapping)
				inserted = append(inserted, el)
			}
			insertBefore(current, t, inc)
		}
		log.Debug().Str("namespace", targetNamespace).Str("location", schemaURL.String()).Int("elements", len(inserted)).Msg("merged included schema")
	}
	detach(inc)
	return inserted, nil
}
