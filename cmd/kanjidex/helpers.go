package main

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/kanjidex/internal/config"
	"github.com/at-ishikawa/kanjidex/internal/database"
	"github.com/at-ishikawa/kanjidex/internal/fetch"
	"github.com/at-ishikawa/kanjidex/internal/kanji"
	"github.com/at-ishikawa/kanjidex/internal/lookup"
	"github.com/at-ishikawa/kanjidex/internal/sentence"
	"github.com/at-ishikawa/kanjidex/internal/snapshot"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// newService reads pages from the configured source, or from saved snapshots when fromSnapshot is set.
func newService(cfg *config.Config, fromSnapshot bool) *lookup.Service {
	store := snapshot.NewStore(cfg.Snapshots.Directory)

	var pages fetch.Fetcher = store
	if !fromSnapshot {
		pages = fetch.NewHTTPFetcher(fetch.Config{
			BaseURL:       cfg.Source.BaseURL,
			UserAgent:     cfg.Source.UserAgent,
			Timeout:       time.Duration(cfg.Source.TimeoutSeconds) * time.Second,
			RetryAttempts: cfg.Source.RetryAttempts,
		})
	}

	return lookup.NewService(
		pages,
		store,
		kanji.NewExtractor(cfg.Selectors.Kanji.Schema()),
		sentence.NewExtractor(cfg.Selectors.Sentences.Schema()),
	)
}

// openDB is a variable so that tests can replace the connection with sqlmock.
var openDB = func(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	return db, nil
}
