package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"data-loader/core/config"
	"data-loader/core/database"
	"data-loader/core/logger"
	"data-loader/core/pipeline"
	"data-loader/core/storage"
	"data-loader/feature/data"
	"data-loader/feature/snapshot"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site and load its data files",
	Long: `Reads the build source, grafts every data file into the metadata tree
and writes the remaining files to the destination.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadBuildConfig(cmd)
		if err != nil {
			return err
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		persist, _ := cmd.Flags().GetBool("persist")
		_, err = runBuild(cmd.Context(), cfg, logg, nil, persist)
		return err
	},
}

// loadBuildConfig loads the configuration and applies command-line overrides.
func loadBuildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Build.Source, _ = flags.GetString("source")
	}
	if flags.Changed("destination") {
		cfg.Build.Destination, _ = flags.GetString("destination")
	}
	if flags.Changed("metadata-out") {
		cfg.Build.MetadataFile, _ = flags.GetString("metadata-out")
	}
	if flags.Changed("data-path") {
		cfg.Data.Path, _ = flags.GetString("data-path")
	}
	if flags.Changed("exclude") {
		cfg.Data.Exclude, _ = flags.GetBool("exclude")
	}
	if flags.Changed("allowjs") {
		cfg.Data.AllowScript, _ = flags.GetBool("allowjs")
	}

	if !cfg.Build.IsValidBackend() {
		return nil, fmt.Errorf("invalid build backend: %s", cfg.Build.Backend)
	}
	return cfg, nil
}

// runBuild runs one build with the data loader. reg may be nil. When
// persist is set the metadata is stored as a snapshot.
func runBuild(ctx context.Context, cfg *config.Config, logg *zap.Logger, reg prometheus.Registerer, persist bool) (*pipeline.Result, error) {
	var client storage.Client
	if cfg.Build.Backend == pipeline.BackendBucket {
		c, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		client = c
	}

	src, sink, err := cfg.Build.Endpoints(afero.NewOsFs(), client, cfg.Storage)
	if err != nil {
		return nil, err
	}

	var opts []data.Option
	if reg != nil {
		opts = append(opts, data.WithMetrics(data.NewMetrics(reg)))
	}

	mgr := pipeline.NewManager(logg)
	mgr.Register(data.NewLoader(cfg.Data, logg, opts...))

	result, err := mgr.Build(ctx, src, sink)
	if err != nil {
		return nil, err
	}
	logg.Info("Build finished",
		zap.String("build_id", result.BuildID),
		zap.Int("files", result.Files.Len()),
		zap.Int("metadata_keys", len(result.Metadata)),
		zap.Duration("took", result.Took),
	)

	if cfg.Build.MetadataFile != "" {
		if err := writeMetadata(cfg.Build.MetadataFile, result); err != nil {
			return nil, err
		}
		logg.Info("Metadata written", zap.String("file", cfg.Build.MetadataFile))
	}

	if persist {
		store, err := openStore(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if _, err := store.Save(ctx, result, src.String()); err != nil {
			return nil, err
		}
		logg.Info("Snapshot saved", zap.String("build_id", result.BuildID))
	}

	return result, nil
}

func writeMetadata(file string, result *pipeline.Result) error {
	body, err := json.MarshalIndent(result.Metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(file, body, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// openStore connects to the snapshot database and migrates it.
func openStore(ctx context.Context, cfg database.Config) (*snapshot.Store, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("snapshot database: %w", err)
	}
	store := snapshot.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "source directory or object prefix")
	cmd.Flags().StringP("destination", "d", "", "output directory or object prefix")
	cmd.Flags().String("data-path", "", "data directory inside the source")
	cmd.Flags().Bool("exclude", false, "remove data files from the output")
	cmd.Flags().Bool("allowjs", false, "enable the script parser for .hcl data files")
	cmd.Flags().String("metadata-out", "", "write the metadata tree as JSON to this file")
}

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().Bool("persist", false, "save the metadata as a snapshot in the database")
	RootCmd.AddCommand(buildCmd)
}
