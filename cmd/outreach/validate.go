package main

import (
	"errors"
	"fmt"

	"github.com/jpalmerr/outreach/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate an outreach configuration file without starting the server.

This command parses the YAML, applies OUTREACH_* environment overrides,
expands environment variables, and validates all fields. It's useful for
CI/CD pipelines or pre-deployment checks.

With --env it lists the supported environment variables instead.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  outreach validate -c config.yaml
  outreach validate --env`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file")
	validateCmd.Flags().Bool("env", false, "list supported environment variables")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	listEnv, _ := cmd.Flags().GetBool("env")
	if listEnv {
		desc, err := config.Describe()
		if err != nil {
			return fmt.Errorf("failed to describe environment: %w", err)
		}
		fmt.Fprintln(out, desc)
		return nil
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return errors.New("a config file is required (use -c), or --env to list environment variables")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	digest := cfg.Digest.Schedule
	if digest == "" {
		digest = "disabled"
	}
	telegram := "disabled"
	if cfg.Notifiers.Telegram.Enabled() {
		telegram = fmt.Sprintf("chat %d", cfg.Notifiers.Telegram.ChatID)
	}

	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Title:    %s\n", cfg.Title)
	fmt.Fprintf(out, "  Port:     %d\n", cfg.Port)
	fmt.Fprintf(out, "  Logging:  %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
	fmt.Fprintf(out, "  Schools:  %d\n", len(cfg.Schools))
	fmt.Fprintf(out, "  Webhooks: %d\n", len(cfg.Notifiers.Webhooks))
	fmt.Fprintf(out, "  Telegram: %s\n", telegram)
	fmt.Fprintf(out, "  Digest:   %s\n", digest)

	return nil
}
