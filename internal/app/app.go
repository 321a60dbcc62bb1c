// -----------------------------------------------------------------------
// Package app wires one stripping run: whitelist sources, the classification
// engine, the report aggregator and its flusher, and the optional run history.
// -----------------------------------------------------------------------

package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shaderstrip/internal/collection"
	"github.com/ternarybob/shaderstrip/internal/common"
	"github.com/ternarybob/shaderstrip/internal/interfaces"
	"github.com/ternarybob/shaderstrip/internal/models"
	"github.com/ternarybob/shaderstrip/internal/playerlog"
	"github.com/ternarybob/shaderstrip/internal/report"
	"github.com/ternarybob/shaderstrip/internal/storage/badger"
	"github.com/ternarybob/shaderstrip/internal/stripper"
)

// App holds all components of a single stripping run
type App struct {
	Config *common.Config
	Logger arbor.ILogger
	Stage  models.BuildStage

	Engine  *stripper.Engine
	Report  *report.Aggregator
	Flusher *report.Flusher
	History interfaces.RunStorage

	db *badger.BadgerDB

	keptMu sync.Mutex
	kept   *collection.Builder
}

// New initializes a run for the given build stage. A malformed player log is
// fatal and returned to the caller; a missing one is an empty whitelist.
func New(cfg *common.Config, stage models.BuildStage, logger arbor.ILogger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if !stage.IsValid() {
		return nil, fmt.Errorf("invalid build stage %q", stage)
	}

	if logger == nil {
		logger = common.GetLogger()
	}

	// the run works on a snapshot so later config edits cannot change its policy
	cfg = common.DeepCloneConfig(cfg)

	app := &App{
		Config: cfg,
		Stage:  stage,
		Report: report.New(cfg.Report.Name, stage),
		kept:   collection.NewBuilder(),
	}

	if cfg.Report.History {
		if err := app.initHistory(logger); err != nil {
			return nil, fmt.Errorf("failed to initialize run history: %w", err)
		}
	}

	var writer *report.Writer
	if cfg.Report.Enabled {
		writer = report.NewWriter(cfg.Report.Dir, logger)
	}
	app.Flusher = report.NewFlusher(app.Report, writer, app.History, logger)
	app.Logger = logger.WithCorrelationId(app.Flusher.RunID())

	sources, err := app.initSources()
	if err != nil {
		app.Close()
		return nil, err
	}

	app.warnUnusedInputs()

	app.Engine = stripper.New(stripper.NewPolicy(cfg.Stripping, stage), sources, app.Report, app.Logger)

	app.Logger.Info().
		Str("stage", stage.String()).
		Bool("stripping_enabled", app.Engine.Policy().StrippingEnabled).
		Strs("sources", app.Engine.Sources()).
		Bool("report", cfg.Report.Enabled).
		Bool("history", cfg.Report.History).
		Msg("Stripping run initialized")

	return app, nil
}

// warnUnusedInputs flags configured evidence that whitelists.order leaves out
func (a *App) warnUnusedInputs() {
	if a.Config.Whitelists.PlayerLog != "" && !a.Config.HasWhitelist(common.WhitelistPlayerLog) {
		a.Logger.Warn().Str("path", a.Config.Whitelists.PlayerLog).Msg("Player log configured but not in whitelists.order, ignoring it")
	}
	if len(a.Config.Whitelists.Collections) > 0 && !a.Config.HasWhitelist(common.WhitelistCollections) {
		a.Logger.Warn().Strs("paths", a.Config.Whitelists.Collections).Msg("Collections configured but not in whitelists.order, ignoring them")
	}
}

// initHistory opens the badger run history
func (a *App) initHistory(logger arbor.ILogger) error {
	db, err := badger.NewBadgerDB(logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.db = db
	a.History = badger.NewRunStorage(db, logger)
	return nil
}

// initSources builds the whitelist sources in configured order
func (a *App) initSources() ([]interfaces.WhitelistSource, error) {
	sources := make([]interfaces.WhitelistSource, 0, len(a.Config.Whitelists.Order))

	for _, name := range a.Config.Whitelists.Order {
		switch name {
		case common.WhitelistPlayerLog:
			source, err := a.loadPlayerLog()
			if err != nil {
				return nil, err
			}
			sources = append(sources, source)

		case common.WhitelistCollections:
			source, err := a.loadCollections()
			if err != nil {
				return nil, err
			}
			sources = append(sources, source)

		default:
			return nil, fmt.Errorf("unknown whitelist source %q", name)
		}
	}
	return sources, nil
}

func (a *App) loadPlayerLog() (*playerlog.Whitelist, error) {
	path := a.Config.Whitelists.PlayerLog
	entries, err := playerlog.ParseFile(path)
	if errors.Is(err, os.ErrNotExist) {
		a.Logger.Warn().Str("path", path).Msg("Player log not found, whitelist is empty")
		return playerlog.NewWhitelist(playerlog.Entries{}), nil
	}
	if err != nil {
		return nil, err
	}

	a.Logger.Debug().
		Str("path", path).
		Int("shaders", len(entries)).
		Int("variants", entries.Variants()).
		Msg("Player log whitelist loaded")
	return playerlog.NewWhitelist(entries), nil
}

func (a *App) loadCollections() (*collection.Whitelist, error) {
	paths := make([]string, 0, len(a.Config.Whitelists.Collections))
	for _, path := range a.Config.Whitelists.Collections {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			a.Logger.Warn().Str("path", path).Msg("Variant collection not found, skipping")
			continue
		}
		paths = append(paths, path)
	}

	provider, err := collection.LoadFiles(paths...)
	if err != nil {
		return nil, err
	}

	a.Logger.Debug().
		Int("files", len(paths)).
		Int("variants", provider.Len()).
		Msg("Collection whitelist loaded")
	return collection.NewWhitelist(provider, a.Logger), nil
}

// Process classifies a batch and returns it with dropped variants removed.
// Kept variants are remembered for the output collection. Safe for concurrent use.
func (a *App) Process(b stripper.Batch) stripper.Batch {
	filtered := a.Engine.Filter(b)

	a.keptMu.Lock()
	for _, keywords := range filtered.Variants {
		a.kept.Add(filtered.Shader, filtered.Pass.Type, keywords)
	}
	a.keptMu.Unlock()

	return filtered
}

// WriteCollection stores every kept variant as a variant collection document
func (a *App) WriteCollection(path string) error {
	a.keptMu.Lock()
	doc := a.kept.Document(a.Config.Report.Name)
	a.keptMu.Unlock()

	if err := collection.WriteDocument(path, doc); err != nil {
		return err
	}
	a.Logger.Info().Str("path", path).Int("shaders", len(doc.Shaders)).Msg("Kept variants collection stored")
	return nil
}

// Complete signals the end of the run; the report is flushed once
func (a *App) Complete(ctx context.Context) (*models.RunRecord, error) {
	return a.Flusher.Complete(ctx)
}

// Close releases the run history database
func (a *App) Close() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("failed to close history: %w", err)
		}
		a.db = nil
	}
	return nil
}

// OpenHistory opens the run history for read-only commands. The returned
// close function must be called when done.
func OpenHistory(cfg *common.Config, logger arbor.ILogger) (interfaces.RunStorage, func() error, error) {
	badgerConfig := cfg.Storage.Badger
	badgerConfig.ResetOnStartup = false

	db, err := badger.NewBadgerDB(logger, &badgerConfig)
	if err != nil {
		return nil, nil, err
	}
	return badger.NewRunStorage(db, logger), db.Close, nil
}
