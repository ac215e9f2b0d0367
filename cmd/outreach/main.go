// Package main is the entry point for the outreach CLI.
//
// The tracker can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	outreach serve -c config.yaml      # Start the dashboard
//	outreach validate -c config.yaml   # Validate configuration
//	outreach validate --env            # List environment overrides
//	outreach version                   # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "outreach",
	Short: "A school outreach tracker",
	Long: `Outreach tracks contact attempts with a list of schools.

It keeps each school's contact details and outreach status, serves a live
dashboard, and can notify webhooks or a Telegram chat whenever a school is
added or its status changes.

Quick start:
  1. Create a config file (outreach.yaml)
  2. Run: outreach serve -c outreach.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  schools:
    - name: Lincoln High
      contact_person: Jane Doe
    - name: Washington Elementary`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this outreach binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "outreach %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
