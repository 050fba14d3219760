// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/config"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/container"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	Format     string
	ConfigFile string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "findash",
		Short: "Validate the account hierarchy and classification of financial reports.",
		Long: `findash infers the account hierarchy of a financial report snapshot,
checks that classification rules are applied consistently across sibling
accounts, and reconciles classified totals against the report's declared totals.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize(SharedFlags.ConfigFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					GetLogger().WithError(err).Warn("Failed to close container")
				}
			}
		},
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}

	// AppConfig is the configuration loaded by the persistent pre-run
	AppConfig *config.Config

	// AppContainer is the dependency container built by the persistent pre-run
	AppContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input report file (a directory for retro)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default stdout)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "text", "Output format: text, json or yaml")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches config.yaml)")
}

// Initialize loads the environment and configuration and builds the container.
func Initialize(configFile string) error {
	config.LoadEnv(logging.GetLogger())

	cfg, err := config.InitializeConfigFromFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	return nil
}

// GetContainer returns the dependency container, or nil before initialization.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, or nil before initialization.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogger returns the container's logger, or the default logger before
// initialization.
func GetLogger() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return logging.GetLogger()
}
