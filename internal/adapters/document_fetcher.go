package adapters

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"wsdl-bundler/internal/ports"
	"wsdl-bundler/internal/shared"
)

// maxDocumentSize caps a single fetched WSDL or XSD.
const maxDocumentSize = 32 << 20

type DocumentFetcherConfig struct {
	TimeoutSec   int
	Retries      int
	RetryDelayMs int
	User         string
	APIKey       string
}

// DocumentFetcherAdapter reads documents from file: and http(s): URLs.
// Every fetch runs under its own deadline, sized so that each retry can
// use the full client timeout.
type DocumentFetcherAdapter struct {
	user   string
	apiKey string
	cfg    httpRetryConfig
	client *http.Client
}

func NewDocumentFetcherAdapter(config DocumentFetcherConfig) DocumentFetcherAdapter {
	cfg := normalizeHTTPConfig(config.TimeoutSec, config.Retries, config.RetryDelayMs)
	return DocumentFetcherAdapter{
		user:   config.User,
		apiKey: config.APIKey,
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.timeout},
	}
}

func (a DocumentFetcherAdapter) Fetch(ctx context.Context, location *url.URL) ([]byte, error) {
	if location == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("document location is required")
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.deadline())
	defer cancel()

	switch strings.ToLower(location.Scheme) {
	case "file":
		return a.readFile(ctx, location)
	case "http", "https":
		return a.download(ctx, location)
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported document scheme: " + location.Scheme)
	}
}

func (a DocumentFetcherAdapter) readFile(ctx context.Context, location *url.URL) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("read canceled").
			WithCause(err)
	}
	path := filepath.FromSlash(location.Path)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("document not found: " + path).
				WithCause(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read document: " + path).
			WithCause(err)
	}
	log.Debug().Str("path", path).Int("bytes", len(content)).Msg("read document")
	return content, nil
}

func (a DocumentFetcherAdapter) download(ctx context.Context, location *url.URL) ([]byte, error) {
	target := location.String()
	resp, err := doRequest(ctx, a.client, target, a.user, a.apiKey, a.cfg)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("document not found: " + target).
			WithCause(shared.HTTPStatusError(resp.StatusCode, target))
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg("access denied: " + target).
			WithCause(shared.HTTPStatusError(resp.StatusCode, target))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("document download failed").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, target, strings.TrimSpace(string(body))))
	}
	content, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read response body").
			WithCause(err)
	}
	if len(content) > maxDocumentSize {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("document exceeds size limit: " + target)
	}
	log.Debug().Str("url", target).Int("bytes", len(content)).Msg("downloaded document")
	return content, nil
}

var _ ports.DocumentFetcherPort = DocumentFetcherAdapter{}
