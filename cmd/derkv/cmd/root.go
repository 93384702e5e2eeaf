/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/derkv/pkg/config"
	"github.com/ssargent/derkv/pkg/di"
	"github.com/ssargent/derkv/pkg/logging"
)

// skipConfigAnnotation marks commands that must run without an existing config file
const skipConfigAnnotation = "derkv/skip-config"

var container *di.Container

// SetContainer injects a prebuilt dependency container. When set, the root
// command does not load configuration or build a logger.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "derkv",
	Short: "derkv - canonical DER codec for key/value records",
	Long: `derkv encodes and decodes key/value records as canonical DER:

  KeyValue ::= SEQUENCE { key INTEGER, value OCTET STRING }

Decoding is strict: non-canonical lengths or integers, truncated input and
trailing bytes are rejected.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container != nil {
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}

		container = di.NewContainer(cfg, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if container != nil {
			_ = container.GetLogger().Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logError(err)
		os.Exit(1)
	}
}

// logError reports a failed command through the application logger. Failures
// before the container exists, such as a bad config file, use a default logger.
func logError(err error) {
	logger := zap.NewNop()
	if container != nil {
		logger = container.GetLogger()
	} else if fallback, buildErr := logging.New(config.DefaultConfig().Logging); buildErr == nil {
		logger = fallback
	}

	logger.Error("command failed", zap.Error(err))
	_ = logger.Sync()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ~/.config/derkv/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn, error")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Encoding for printed records: hex or base64")
}

// loadConfig resolves the configuration from --config, the default path, or
// built-in defaults, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	switch {
	case cmd.Annotations[skipConfigAnnotation] == "true":
	case config.ConfigExists(configPath):
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case explicit:
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Output = output
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// outputFormat returns the --output flag if given, otherwise the configured format
func outputFormat(cmd *cobra.Command) string {
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		return output
	}
	return container.GetConfig().Output
}
