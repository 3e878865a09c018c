package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/benmeehan/hydrant-survey/internal/service_registry"
	"github.com/benmeehan/hydrant-survey/internal/utils"
	"github.com/benmeehan/hydrant-survey/pkg/file"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/config.yaml"

var (
	configPath string
	registry   *service_registry.ServiceRegistry
	logger     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "surveyor",
	Short: "Field survey tool for proposed fire hydrant locations",
	Long: `
surveyor records proposed fire hydrant sites for one survey area, stamps each
with a location code, sends a dispatch message per hydrant and compiles the
survey report.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger = utils.NewLogger(config.Logging.Level, config.Logging.Format, os.Stderr)

		registry = service_registry.NewServiceRegistry(file.NewFileService(), nil, cmd.OutOrStdout(), logger)
		return registry.RegisterServices(cmd.Context(), config)
	},
}

// loadConfig reads --config. The default path may be absent, an explicit one may not.
func loadConfig(cmd *cobra.Command) (*utils.Config, error) {
	config, err := utils.LoadConfig(configPath, file.NewFileService())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
			config = utils.DefaultConfig()
		} else {
			return nil, fmt.Errorf("failed to load configuration %s: %w", configPath, err)
		}
	}

	if cmd.Flags().Lookup("lat") != nil && (cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng")) {
		config.Location.Provider = utils.ProviderStatic
		config.Location.Static.Latitude = captureLat
		config.Location.Static.Longitude = captureLng
	}
	return config, config.Validate()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to the YAML configuration file")
}

func Execute(version string) {
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run executes the command line and releases whatever the command built.
func run(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if registry != nil {
		if stopErr := registry.StopServices(); stopErr != nil && err == nil {
			err = stopErr
		}
		registry = nil
	}
	return err
}
