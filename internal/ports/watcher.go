package ports

import "context"

// WatcherPort reports changes to WSDL and XSD files below a set of
// directories.
type WatcherPort interface {
	// Watch blocks until ctx is canceled, calling onChange with the last
	// changed path once events settle. Paths for which ignore returns true
	// never reach onChange and do not hide other changes in the same
	// window. ignore may be nil.
	Watch(ctx context.Context, dirs []string, ignore func(path string) bool, onChange func(path string)) error
}
