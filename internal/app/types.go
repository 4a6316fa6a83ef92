package app

import "wsdl-bundler/internal/types"

const DefaultFilenameTemplate = "import%d.wsdl"

const defaultBatchWorkers = 4

type FetchOptions struct {
	TimeoutSec   int
	Retries      int
	RetryDelayMs int
	User         string
	APIKey       string
	// Catalogs are catalog.yaml files applied in order.
	Catalogs []string
}

type FlattenRequest struct {
	Location         string
	FilenameTemplate string
	OutputDir        string
	RootFilename     string
	Fetch            FetchOptions
}

type FlattenResult struct {
	Source    string
	OutputDir string
	RootFile  string
	Files     []string
}

type BatchRequest struct {
	Locations        []string
	FilenameTemplate string
	OutputDir        string
	RootFilename     string
	Workers          int
	Fetch            FetchOptions
}

type BatchResult struct {
	Bundles []FlattenResult
	Failed  int
}

type InspectRequest struct {
	OutputDir string
}

type InspectResult struct {
	Manifest   types.Manifest
	Documents  []types.DocumentSummary
	Unresolved int
}

type WatchRequest struct {
	Flatten    FlattenRequest
	DebounceMs int
	// OnFlatten is called after every re-flatten triggered by a change.
	OnFlatten func(FlattenResult, error)
}
