package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tweetsearch/pkg/config"
	"tweetsearch/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage tweetsearch configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TWEETSEARCH_*)
  - .env file
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file holding every option at its default value.

The file is created as 'tweetsearch.yaml' in the current directory unless
a different path is given with --config.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging every source.

The password is masked.`,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = "tweetsearch.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	ui.PrintInfo("Next", "add credentials or run 'tweetsearch auth login', then 'tweetsearch config validate'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	display := *cfg
	if display.Credentials.Password != "" {
		display.Credentials.Password = "********"
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.Credentials.Username == "" || cfg.Credentials.Password == "" {
		ui.PrintWarning("No credentials configured", "stored accounts or cached cookies will be used")
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Backend", cfg.Backend.Kind)
	ui.PrintInfo("Search", fmt.Sprintf("mode %s, at least %d items, %d at a time", cfg.Search.Mode, cfg.Search.MinimumItems, cfg.Search.Concurrency))
	ui.PrintInfo("Retries", fmt.Sprintf("%d attempts, page retries %d (0 means unlimited)", cfg.Retry.MaxRetries, cfg.Pagination.MaxPageRetries))
	ui.PrintInfo("Rate limit", fmt.Sprintf("%d requests/minute (0 means unpaced)", cfg.RateLimit.RequestsPerMinute))
	ui.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}
