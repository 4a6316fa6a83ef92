package core

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"
)

// prefixMapping rewrites prefixes of an included schema to the prefixes
// bound on the host schema. The key "" stands for the default namespace.
type prefixMapping map[string]string

// without returns the mapping minus prefixes redeclared on el.
func (m prefixMapping) without(el *etree.Element) prefixMapping {
	var local prefixMapping
	for _, attr := range el.Attr {
		prefix, ok := declaredPrefix(attr)
		if !ok {
			continue
		}
		if _, mapped := m[prefix]; !mapped {
			continue
		}
		if local == nil {
			local = make(prefixMapping, len(m))
			for k, v := range m {
				local[k] = v
			}
		}
		delete(local, prefix)
	}
	if local == nil {
		return m
	}
	return local
}

// mergeIncludedAttributes copies the attributes of an included schema root
// onto host and returns the prefix renames the included content needs.
func mergeIncludedAttributes(host *etree.Element, included *etree.Element) prefixMapping {
	mapping := prefixMapping{}
	for _, attr := range included.Attr {
		prefix, isDecl := declaredPrefix(attr)
		if !isDecl {
			if host.SelectAttr(attrKey(attr)) == nil {
				host.CreateAttr(attrKey(attr), attr.Value)
			}
			continue
		}

		current, bound := lookupNamespace(host, prefix)
		switch {
		case bound && current == attr.Value:
		case bound:
			renamed, ok := prefixFor(host, attr.Value)
			if !ok {
				renamed = allocatePrefix(host, included, prefix)
				declare(host, renamed, attr.Value)
			}
			mapping[prefix] = renamed
		default:
			if existing, ok := prefixFor(host, attr.Value); ok && existing != prefix {
				mapping[prefix] = existing
				continue
			}
			declare(host, prefix, attr.Value)
		}
	}
	for prefix, renamed := range mapping {
		log.Debug().Str("from", prefix).Str("to", renamed).Msg("remapped included prefix")
	}
	return mapping
}

// qualifyChameleon maps unqualified references of a chameleon include to
// the host target namespace when the host default namespace differs.
func qualifyChameleon(host *etree.Element, included *etree.Element, targetNamespace string, mapping prefixMapping) {
	if targetNamespace == "" {
		return
	}
	if _, ok := mapping[""]; ok {
		return
	}
	if _, ok := lookupNamespace(included, ""); ok {
		return
	}
	if uri, _ := lookupNamespace(host, ""); uri == targetNamespace {
		return
	}
	prefix, ok := prefixFor(host, targetNamespace)
	if !ok {
		prefix = allocatePrefix(host, included, "")
		declare(host, prefix, targetNamespace)
	}
	mapping[""] = prefix
}

// allocatePrefix picks old, old0, old1, ... skipping prefixes in scope on
// host or declared on included. The default namespace uses "ns".
func allocatePrefix(host *etree.Element, included *etree.Element, old string) string {
	base := old
	if base == "" {
		base = "ns"
	}
	taken := func(candidate string) bool {
		if _, ok := lookupNamespace(host, candidate); ok {
			return true
		}
		for _, attr := range included.Attr {
			if prefix, isDecl := declaredPrefix(attr); isDecl && prefix == candidate {
				return true
			}
		}
		return false
	}
	candidate := base
	for index := 0; taken(candidate); index++ {
		candidate = base + strconv.Itoa(index)
	}
	return candidate
}

// fixPrefixes applies mapping to el and its descendants: element prefixes,
// attribute prefixes, prefix:local values and unqualified type, base and
// ref values.
func fixPrefixes(el *etree.Element, mapping prefixMapping) {
	mapping = mapping.without(el)
	if len(mapping) == 0 {
		return
	}
	if renamed, ok := mapping[el.Space]; ok {
		el.Space = renamed
	}
	for i := range el.Attr {
		attr := &el.Attr[i]
		if _, isDecl := declaredPrefix(*attr); isDecl {
			continue
		}
		if attr.Space != "" && attr.Space != "xml" {
			if renamed, ok := mapping[attr.Space]; ok && renamed != "" {
				attr.Space = renamed
			}
		}
		attr.Value = rewriteValue(attr.Key, attr.Space, attr.Value, mapping)
	}
	for _, child := range el.ChildElements() {
		fixPrefixes(child, mapping)
	}
}

func rewriteValue(key string, space string, value string, mapping prefixMapping) string {
	if !strings.ContainsRune(value, ':') {
		renamed, ok := mapping[""]
		if ok && renamed != "" && space == "" && isQNameAttribute(key) && value != "" {
			return qualified(renamed, value)
		}
		return value
	}
	fields := strings.Fields(value)
	if len(fields) > 1 {
		changed := false
		for i, field := range fields {
			if rewritten := rewriteQName(field, mapping); rewritten != field {
				fields[i] = rewritten
				changed = true
			}
		}
		if changed {
			return strings.Join(fields, " ")
		}
		return value
	}
	return rewriteQName(value, mapping)
}

func rewriteQName(value string, mapping prefixMapping) string {
	prefix, local, ok := qnamePrefix(value)
	if !ok {
		return value
	}
	renamed, mapped := mapping[prefix]
	if !mapped {
		return value
	}
	return qualified(renamed, local)
}

func attrKey(attr etree.Attr) string {
	return qualified(attr.Space, attr.Key)
}
