package testdatagen

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/export"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/scenario"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/workload"
)

// Options select what a run produces besides the stored data.
type Options struct {
	Scenario *scenario.Scenario
	Seed     uint64
	// OutputDir receives the scenario CSV files. Empty skips the export.
	OutputDir string
	// ExportDomain is the domain written to OutputDir.
	ExportDomain string
	// DumpPath receives a CBOR snapshot of all domains. Empty skips it.
	DumpPath string
}

// App generates a scenario into a store.
type App struct {
	opts  Options
	store store.Store
	log   zerolog.Logger
}

// New creates an app writing to s. A nil scenario runs the built-in one.
func New(opts Options, s store.Store, log zerolog.Logger) *App {
	if opts.Scenario == nil {
		opts.Scenario = scenario.Default()
	}
	if opts.ExportDomain == "" {
		opts.ExportDomain = export.DefaultDomain
	}
	return &App{opts: opts, store: s, log: log}
}

// Run builds and persists each domain in turn, then exports the union of
// all domains. The first failure stops the run.
func (a *App) Run(ctx context.Context) (*models.Bundle, error) {
	if err := a.store.Migrate(ctx); err != nil {
		return nil, &store.PersistenceError{Op: store.OpMigrate, Err: err}
	}

	gen := NewGenerator(a.opts.Seed, a.log)
	result := &models.Bundle{}
	for _, d := range a.opts.Scenario.Domains {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bundle, err := gen.BuildDomain(d)
		if err != nil {
			return nil, err
		}
		if err := store.Persist(ctx, a.store, bundle, a.log.With().Str("domain", d.Name).Logger()); err != nil {
			return nil, fmt.Errorf("domain %s: %w", d.Name, err)
		}
		result = result.Union(bundle)
	}

	if a.opts.OutputDir != "" {
		exporter := export.NewScenarioExporter(
			workload.NewSource(a.opts.Seed),
			export.WithDomain(a.opts.ExportDomain),
			export.WithLogger(a.log),
		)
		if err := exporter.Export(a.opts.OutputDir, result); err != nil {
			return nil, err
		}
	}
	if a.opts.DumpPath != "" {
		if err := export.DumpFile(a.opts.DumpPath, result); err != nil {
			return nil, err
		}
		a.log.Info().Str("path", a.opts.DumpPath).Msg("dump written")
	}
	return result, nil
}
