package core

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ResolveLocation combines base and spec into a document URL.
//
// spec is first read as a URL reference relative to base. A reference
// without a scheme and without a base is not a URL; it is then taken as a
// filesystem path, which must be absolute. Relative filesystem paths with
// no base cannot be resolved.
func ResolveLocation(base *url.URL, spec string) (*url.URL, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return nil, newError(KindInvalidLocation, "location is empty", nil)
	}

	var urlErr error
	if isDrivePath(trimmed) {
		urlErr = fmt.Errorf("unknown protocol: %s", trimmed[:1])
	} else {
		ref, err := url.Parse(trimmed)
		switch {
		case err != nil:
			urlErr = err
		case base != nil:
			return base.ResolveReference(ref), nil
		case ref.IsAbs():
			return ref, nil
		default:
			urlErr = fmt.Errorf("no protocol: %s", trimmed)
		}
	}

	if isAbsolutePath(trimmed) {
		return fileURL(trimmed), nil
	}
	return nil, newError(KindInvalidLocation, "cannot resolve "+trimmed, urlErr)
}

func fileURL(path string) *url.URL {
	slashed := filepath.ToSlash(filepath.Clean(path))
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return &url.URL{Scheme: "file", Path: slashed}
}

func isAbsolutePath(path string) bool {
	return filepath.IsAbs(path) || isDrivePath(path)
}

// isDrivePath reports a Windows drive path such as C:\schemas\a.xsd, which
// url.Parse would otherwise accept as a one-letter scheme.
func isDrivePath(path string) bool {
	if len(path) < 3 || path[1] != ':' {
		return false
	}
	letter := path[0]
	if !(letter >= 'a' && letter <= 'z') && !(letter >= 'A' && letter <= 'Z') {
		return false
	}
	return path[2] == '\\' || path[2] == '/'
}

// ValidateTemplate checks that template holds exactly one integer verb.
func ValidateTemplate(template string) error {
	trimmed := strings.TrimSpace(template)
	if trimmed == "" {
		return invalidTemplate("filename template is empty")
	}
	verbs := 0
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != '%' {
			continue
		}
		if i+1 < len(trimmed) && trimmed[i+1] == '%' {
			i++
			continue
		}
		verbs++
		j := i + 1
		for j < len(trimmed) && strings.ContainsRune("0123456789+-# ", rune(trimmed[j])) {
			j++
		}
		if j >= len(trimmed) || trimmed[j] != 'd' {
			return invalidTemplate("filename template must use an integer verb: " + trimmed)
		}
		i = j
	}
	if verbs != 1 {
		return invalidTemplate("filename template must contain exactly one integer verb: " + trimmed)
	}
	return nil
}

func invalidTemplate(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}
