package app

import (
	"time"

	"wsdl-bundler/internal/adapters"
	"wsdl-bundler/internal/ports"
)

type Service struct {
	// Fetcher overrides the document fetcher built from each request's
	// fetch options.
	Fetcher      ports.DocumentFetcherPort
	OutputReader ports.OutputReaderPort
	// Watcher defaults to an fsnotify watcher using the request debounce.
	Watcher ports.WatcherPort
	Clock   func() time.Time
}

func NewService() Service {
	return Service{
		OutputReader: adapters.NewOutputReaderAdapter(),
		Clock:        time.Now,
	}
}

// fetcher builds the document fetcher for one request, layering the
// request catalogs over it when any are given.
func (s Service) fetcher(opts FetchOptions) (ports.DocumentFetcherPort, error) {
	var fetcher ports.DocumentFetcherPort = s.Fetcher
	if fetcher == nil {
		fetcher = adapters.NewDocumentFetcherAdapter(adapters.DocumentFetcherConfig{
			TimeoutSec:   opts.TimeoutSec,
			Retries:      opts.Retries,
			RetryDelayMs: opts.RetryDelayMs,
			User:         opts.User,
			APIKey:       opts.APIKey,
		})
	}
	if len(opts.Catalogs) == 0 {
		return fetcher, nil
	}
	catalog := adapters.NewCatalogAdapter()
	for _, path := range opts.Catalogs {
		if err := catalog.LoadCatalog(path); err != nil {
			return nil, err
		}
	}
	return adapters.CatalogFetcher{Catalog: catalog, Next: fetcher}, nil
}

func (s Service) output(dir string, rootFilename string) ports.OutputPort {
	adapter := adapters.NewOutputFileAdapter(dir, rootFilename)
	if s.Clock != nil {
		adapter.Now = s.Clock
	}
	return adapter
}
