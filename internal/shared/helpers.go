// Package shared provides common utility functions used across multiple
// packages in the wsdl-bundler codebase.
package shared

import (
	"fmt"
	"path/filepath"
	"strings"
)

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}

// IsSchemaFile reports whether path names a WSDL or XSD document.
func IsSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wsdl", ".xsd":
		return true
	default:
		return false
	}
}
