package core

import (
	"sort"
	"strings"

	"github.com/beevik/etree"

	"wsdl-bundler/internal/types"
)

const xmlnsPrefix = "xmlns"

// declaredPrefix reports whether attr is a namespace declaration and, if so,
// the prefix it binds ("" for the default namespace).
func declaredPrefix(attr etree.Attr) (string, bool) {
	if attr.Space == "" && attr.Key == xmlnsPrefix {
		return "", true
	}
	if attr.Space == xmlnsPrefix {
		return attr.Key, true
	}
	return "", false
}

// lookupBinding resolves prefix from el outwards and returns the element
// carrying the declaration. The xml prefix is bound implicitly (owner nil).
func lookupBinding(el *etree.Element, prefix string) (string, *etree.Element, bool) {
	if prefix == "xml" {
		return types.XMLNamespace, nil, true
	}
	for e := el; e != nil; e = e.Parent() {
		for _, attr := range e.Attr {
			if p, ok := declaredPrefix(attr); ok && p == prefix {
				return attr.Value, e, true
			}
		}
	}
	return "", nil, false
}

func lookupNamespace(el *etree.Element, prefix string) (string, bool) {
	uri, _, ok := lookupBinding(el, prefix)
	return uri, ok
}

func namespaceOf(el *etree.Element) string {
	uri, _ := lookupNamespace(el, el.Space)
	return uri
}

func isXSD(el *etree.Element, local string) bool {
	return el.Tag == local && namespaceOf(el) == types.XSDNamespace
}

// prefixFor returns an in-scope prefix bound to uri, preferring the nearest
// declaration and ignoring prefixes shadowed closer to el.
func prefixFor(el *etree.Element, uri string) (string, bool) {
	shadowed := map[string]struct{}{}
	for e := el; e != nil; e = e.Parent() {
		for _, attr := range e.Attr {
			prefix, ok := declaredPrefix(attr)
			if !ok {
				continue
			}
			if _, hidden := shadowed[prefix]; hidden {
				continue
			}
			if attr.Value == uri {
				return prefix, true
			}
		}
		for _, attr := range e.Attr {
			if prefix, ok := declaredPrefix(attr); ok {
				shadowed[prefix] = struct{}{}
			}
		}
	}
	return "", false
}

func declare(el *etree.Element, prefix string, uri string) {
	if prefix == "" {
		el.CreateAttr(xmlnsPrefix, uri)
		return
	}
	el.CreateAttr(xmlnsPrefix+":"+prefix, uri)
}

func qualified(prefix string, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

func attrValue(el *etree.Element, key string) string {
	return el.SelectAttrValue(key, "")
}

// elementsByTagNS collects, in document order, every element below and
// including root whose namespace and local name match.
func elementsByTagNS(root *etree.Element, namespace string, local string) []*etree.Element {
	var found []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.Tag == local && namespaceOf(el) == namespace {
			found = append(found, el)
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(root)
	return found
}

// insertBefore moves t under parent in front of ref, or to the end when ref
// is nil. t is detached from its current parent first.
func insertBefore(parent *etree.Element, t etree.Token, ref etree.Token) {
	if ref != nil && t == ref {
		return
	}
	detach(t)
	index := len(parent.Child)
	if ref != nil {
		index = ref.Index()
	}
	parent.InsertChildAt(index, t)
}

func detach(t etree.Token) {
	if p := t.Parent(); p != nil {
		p.RemoveChildAt(t.Index())
	}
}

func firstChildElement(el *etree.Element) *etree.Element {
	for _, t := range el.Child {
		if child, ok := t.(*etree.Element); ok {
			return child
		}
	}
	return nil
}

func within(el *etree.Element, root *etree.Element) bool {
	for e := el; e != nil; e = e.Parent() {
		if e == root {
			return true
		}
	}
	return false
}

// qnamePrefix splits the prefix off a prefix:local value. URLs and values
// with more than one colon are not QNames.
func qnamePrefix(value string) (string, string, bool) {
	index := strings.IndexByte(value, ':')
	if index <= 0 || index == len(value)-1 {
		return "", "", false
	}
	prefix, local := value[:index], value[index+1:]
	if strings.ContainsAny(prefix, " /\t\n") || strings.ContainsAny(local, ": /\t\n") {
		return "", "", false
	}
	return prefix, local, true
}

// qnameAttributes carry QName values whose unprefixed form refers to the
// default namespace.
var qnameAttributes = map[string]struct{}{
	"type": {},
	"base": {},
	"ref":  {},
}

func isQNameAttribute(key string) bool {
	_, ok := qnameAttributes[key]
	return ok
}

type binding struct {
	uri   string
	bound bool
}

// outerBindings records, for every prefix used inside el whose declaration
// lives outside el, the namespace it resolves to at el's current position.
func outerBindings(el *etree.Element) map[string]binding {
	used := map[string]binding{}
	note := func(e *etree.Element, prefix string) {
		if _, seen := used[prefix]; seen {
			return
		}
		uri, owner, ok := lookupBinding(e, prefix)
		if ok && owner != nil && within(owner, el) {
			return
		}
		used[prefix] = binding{uri: uri, bound: ok}
	}
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		note(e, e.Space)
		for _, attr := range e.Attr {
			if _, isDecl := declaredPrefix(attr); isDecl {
				continue
			}
			if attr.Space != "" {
				note(e, attr.Space)
			}
			if prefix, _, ok := qnamePrefix(attr.Value); ok {
				if _, bound := lookupNamespace(e, prefix); bound {
					note(e, prefix)
				}
				continue
			}
			if attr.Space == "" && isQNameAttribute(attr.Key) && attr.Value != "" {
				note(e, "")
			}
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	walk(el)
	return used
}

// restoreBindings declares on el every binding from before a move that no
// longer resolves the same way. A default namespace that was unbound is
// undeclared with xmlns="".
func restoreBindings(el *etree.Element, before map[string]binding) {
	prefixes := make([]string, 0, len(before))
	for prefix := range before {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		want := before[prefix]
		uri, bound := lookupNamespace(el, prefix)
		if bound == want.bound && uri == want.uri {
			continue
		}
		switch {
		case want.bound:
			declare(el, prefix, want.uri)
		case prefix == "" && uri != "":
			declare(el, "", "")
		}
	}
}

// moveWithNamespaces relocates el in front of ref under parent, keeping
// every namespace binding el relied on at its previous position.
func moveWithNamespaces(el *etree.Element, parent *etree.Element, ref etree.Token) {
	before := outerBindings(el)
	insertBefore(parent, el, ref)
	restoreBindings(el, before)
}
