// Package main provides the querygw-cli command-line tool: one-shot
// queries against the gateway core, config validation, and version info.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	querygateway "github.com/ferro-labs/query-gateway"
	"github.com/ferro-labs/query-gateway/internal/version"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:     "querygw-cli",
	Short:   "query-gateway command line tool",
	Version: version.Short(),
}

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Run one query through an in-process gateway and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg := querygateway.Config{}
		if configFlag != "" {
			loaded, err := querygateway.LoadConfig(configFlag)
			if err != nil {
				return err
			}
			if err := querygateway.ValidateConfig(*loaded); err != nil {
				return err
			}
			cfg = *loaded
		}
		if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
			cfg.Weather.APIKey = key
		}

		gw, err := querygateway.New(cfg)
		if err != nil {
			return err
		}

		result := gw.Process(context.Background(), strings.Join(args, " "))
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a gateway configuration file (JSON/YAML)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := querygateway.LoadConfig(args[0])
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := querygateway.ValidateConfig(*cfg); err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✓ Config is valid")
		fmt.Fprintf(cmd.OutOrStdout(), "  Audit sink:      %s\n", orDefault(cfg.Audit.Sink, "none"))
		fmt.Fprintf(cmd.OutOrStdout(), "  Weather TTL (s): %d\n", orDefaultInt(cfg.Weather.CacheTTLSeconds, 60))
		fmt.Fprintf(cmd.OutOrStdout(), "  Joke TTL (s):    %d\n", orDefaultInt(cfg.Joke.CacheTTLSeconds, 60))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "querygw-cli "+version.String())
	},
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func orDefaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func init() {
	queryCmd.Flags().StringVar(&configFlag, "config", "", "Path to a gateway config file")
	rootCmd.AddCommand(queryCmd, validateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
