package core

// importRegistry tracks what one load has already pulled in. seen guards
// against import cycles; included holds, per target namespace, the include
// locations already merged.
type importRegistry struct {
	seen     map[string]struct{}
	included map[string]map[string]struct{}
}

func newImportRegistry() *importRegistry {
	return &importRegistry{
		seen:     map[string]struct{}{},
		included: map[string]map[string]struct{}{},
	}
}

// Register marks namespace as seen and starts an empty include set for it.
func (r *importRegistry) Register(namespace string) {
	r.seen[namespace] = struct{}{}
	r.included[namespace] = map[string]struct{}{}
}

func (r *importRegistry) Registered(namespace string) bool {
	_, ok := r.seen[namespace]
	return ok
}

// MarkIncluded records location under namespace and reports whether it was
// new.
func (r *importRegistry) MarkIncluded(namespace string, location string) bool {
	locations, ok := r.included[namespace]
	if !ok {
		locations = map[string]struct{}{}
		r.included[namespace] = locations
	}
	if _, done := locations[location]; done {
		return false
	}
	locations[location] = struct{}{}
	return true
}

func (r *importRegistry) Reset() {
	clear(r.seen)
	clear(r.included)
}
