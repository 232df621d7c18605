package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/reforestai/geokit/internal/config"
	"github.com/reforestai/geokit/internal/log"
	"github.com/reforestai/geokit/internal/storage"
	"github.com/reforestai/geokit/internal/tools"
)

// setup loads configuration and builds the toolset every command runs against.
// The logger writes to stderr; stdout carries only result envelopes (and, in
// MCP mode, JSON-RPC frames).
func setup() (*tools.GeoToolset, log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	store, err := storage.New(cfg.DataDir, logger,
		storage.WithMaxDocumentSize(int64(cfg.MaxFileSizeMB)<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("opening data directory: %w", err)
	}

	toolset, err := tools.NewGeoToolset(store, cfg.MaxFeatures, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating toolset: %w", err)
	}
	return toolset, logger, nil
}

// printResult writes the envelope to stdout. An error envelope also yields a
// non-nil error so the process exits non-zero.
func printResult(r tools.Result) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(b))

	if r.Status == tools.StatusError {
		return fmt.Errorf("%s: %s", r.Error.Code, r.Error.Message)
	}
	return nil
}
