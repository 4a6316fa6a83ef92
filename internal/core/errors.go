package core

import (
	"errors"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Kind classifies resolver failures. The kind is carried as the prefix of
// the errbuilder message so it survives the CLI exit-code mapping.
type Kind string

const (
	KindUnknown           Kind = ""
	KindInvalidLocation   Kind = "invalid location"
	KindParseError        Kind = "parse error"
	KindInvalidInclude    Kind = "invalid include"
	KindNamespaceMismatch Kind = "namespace mismatch"
	KindTransformError    Kind = "transform error"
)

var knownKinds = []Kind{
	KindInvalidLocation,
	KindParseError,
	KindInvalidInclude,
	KindNamespaceMismatch,
	KindTransformError,
}

// KindOf returns the resolver kind of err, or KindUnknown when err did not
// originate in the resolver.
func KindOf(err error) Kind {
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return KindUnknown
	}
	for _, kind := range knownKinds {
		if strings.HasPrefix(builder.Msg, string(kind)+":") {
			return kind
		}
	}
	return KindUnknown
}

func newError(kind Kind, msg string, cause error) error {
	builder := errbuilder.New().WithMsg(string(kind) + ": " + msg)
	switch kind {
	case KindInvalidLocation, KindParseError:
		builder = builder.WithCode(errbuilder.CodeInvalidArgument)
	case KindInvalidInclude, KindNamespaceMismatch:
		builder = builder.WithCode(errbuilder.CodeFailedPrecondition)
	default:
		builder = builder.WithCode(errbuilder.CodeInternal)
	}
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

// fetchError reports an acquisition failure as a parse error, keeping
// NotFound from the fetcher so a missing document stays distinguishable.
func fetchError(location string, cause error) error {
	builder := errbuilder.New().
		WithMsg(string(KindParseError) + ": failed to read " + location).
		WithCause(cause)
	if errbuilder.CodeOf(cause) == errbuilder.CodeNotFound {
		return builder.WithCode(errbuilder.CodeNotFound)
	}
	return builder.WithCode(errbuilder.CodeInternal)
}

// aggregate passes resolver errors through unchanged and wraps anything
// else once, so every failure leaving Load carries a kind.
func aggregate(err error) error {
	if KindOf(err) != KindUnknown {
		return err
	}
	return newError(KindTransformError, "error occurred while processing schemas", err)
}
