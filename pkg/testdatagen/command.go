// Package testdatagen wires configuration, scenario, stores and exports into
// the testdatagen command.
package testdatagen

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/config"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/logger"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/scenario"
)

type flags struct {
	output   string
	config   string
	scenario string
	dump     string
	logLevel string
	logFile  string
	console  bool
}

// Main runs the command with args. It can be called from tests without
// building the binary.
func Main(ctx context.Context, args []string) error {
	cmd := NewCommand()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// NewCommand returns the root command. Logs go to the command's error
// writer unless a log file is given.
func NewCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "testdatagen",
		Short: "Generate workbasket and task test data",
		Long: `testdatagen builds the workbasket trees, access lists, classifications
and tasks of a scenario, writes them to the configured stores and optionally
exports the load test parameter files of one domain.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "directory for the scenario CSV files; no export when empty")
	fs.StringVar(&f.config, "config", "", "properties file (default $HOME/"+config.FileName+")")
	fs.String(config.KeyStore, config.StoreMemory, "comma separated stores: memory, postgres, surrealdb")
	fs.Uint64(config.KeySeed, 0, "seed of ids and random picks")
	fs.StringVar(&f.scenario, "scenario", "", "YAML scenario file (default: built-in domains A, B and C)")
	fs.StringVar(&f.dump, "dump", "", "write a CBOR snapshot of all domains to this file")
	fs.StringVar(&f.logLevel, "log-level", "info", "minimum log level")
	fs.StringVar(&f.logFile, "log-file", "", "append logs to this file")
	fs.BoolVar(&f.console, "console", false, "human readable log lines")
	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	ctx := cmd.Context()

	build := logger.New().FromBuffer(cmd.ErrOrStderr()).WithLevel(f.logLevel).Console(f.console)
	if f.logFile != "" {
		build = build.FromPath(f.logFile)
	}
	logData, err := build.Make()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logData.Close()
	log := logData.Logger

	cfg, err := config.Load(f.config, cmd.Flags())
	if err != nil {
		return err
	}
	log.Debug().Str("file", cfg.File).Strs("stores", cfg.Stores()).Msg("configuration loaded")

	sc := scenario.Default()
	if f.scenario != "" {
		if sc, err = scenario.Load(f.scenario); err != nil {
			return err
		}
	}

	st, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("closing store")
		}
	}()

	app := New(Options{
		Scenario:     sc,
		Seed:         cfg.Seed,
		OutputDir:    f.output,
		ExportDomain: cfg.ExportDomain,
		DumpPath:     f.dump,
	}, st, log)
	bundle, err := app.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Strs("domains", bundle.Domains()).
		Int("containers", len(bundle.Containers)).
		Int("items", len(bundle.Items)).
		Msg("generation finished")
	return nil
}
