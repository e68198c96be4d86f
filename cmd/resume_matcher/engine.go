package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/embedding"
	"github.com/jonathan/resume-matcher/internal/engine"
	"github.com/jonathan/resume-matcher/internal/explain"
	"github.com/jonathan/resume-matcher/internal/index"
	"github.com/jonathan/resume-matcher/internal/store"
)

// loadSettings merges the optional config file with defaults and the
// GEMINI_API_KEY environment variable.
func loadSettings() (config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	settings := cfg.WithDefaults()
	if settings.APIKey == "" {
		settings.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if verbose {
		settings.Verbose = true
	}
	return settings, nil
}

// openEngine assembles the engine from the configured snapshot paths or the
// configured database. The returned cleanup func releases API clients and the
// database pool; it is safe to call on every path.
func openEngine(ctx context.Context, settings config.Config) (*engine.Engine, func(), error) {
	provider, err := embedding.NewGeminiProvider(ctx, settings.APIKey, embedding.GeminiConfig{
		Model:     settings.EmbeddingModel,
		Dimension: settings.EmbeddingDim,
		MaxChars:  settings.MaxSequenceChars,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	idx, err := index.LoadFlat(settings.IndexPath, settings.EmbeddingDim)
	if err != nil {
		_ = provider.Close()
		return nil, nil, fmt.Errorf("failed to load index: %w", err)
	}

	var recordStore store.RecordStore
	var database *db.DB
	if settings.DatabaseURL != "" {
		database, err = db.Connect(ctx, settings.DatabaseURL)
		if err != nil {
			_ = provider.Close()
			return nil, nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			_ = provider.Close()
			return nil, nil, err
		}
		var opts []db.StoreOption
		if settings.Dedup {
			opts = append(opts, db.WithDedup())
		}
		recordStore = db.NewResumeStore(database, opts...)
	} else {
		var opts []store.FileOption
		if settings.Dedup {
			opts = append(opts, store.WithDedup())
		}
		recordStore, err = store.OpenFile(settings.MetadataPath, opts...)
		if err != nil {
			_ = provider.Close()
			return nil, nil, fmt.Errorf("failed to open metadata store: %w", err)
		}
	}

	explainProvider, err := explain.NewGeminiProvider(ctx, settings.APIKey, settings.ExplainModel)
	if err != nil {
		if database != nil {
			database.Close()
		}
		_ = provider.Close()
		return nil, nil, fmt.Errorf("failed to create explanation provider: %w", err)
	}
	orchestrator := explain.NewOrchestrator(explainProvider,
		time.Duration(settings.ExplainTimeoutSec)*time.Second, settings.ExplainConcurrency)

	e, err := engine.Open(ctx, engine.Options{
		Provider:  provider,
		Index:     idx,
		Store:     recordStore,
		Explainer: orchestrator,
		IndexPath: settings.IndexPath,
	})
	if err != nil {
		if database != nil {
			database.Close()
		}
		_ = explainProvider.Close()
		_ = provider.Close()
		return nil, nil, err
	}
	e.SetModelInfo(settings.EmbeddingModel, settings.ExplainModel)
	e.SetMetadataPath(settings.MetadataPath)

	cleanup := func() {
		_ = explainProvider.Close()
		_ = provider.Close()
		if database != nil {
			database.Close()
		}
	}
	return e, cleanup, nil
}
