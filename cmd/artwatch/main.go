// Package main provides the artwatch CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/artwatch/internal/version"
)

var (
	flagEnv     string
	flagConfig  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "artwatch",
	Short: "Artwork similarity and web-search relevance engine",
	Long: `artwatch finds visually similar and duplicate artworks from precomputed
image features, and scores reverse image search results to surface copies
offered on auction and marketplace sites.

Every command except serve runs the engine in-process against the storage
backend named in the config file and prints JSON to stdout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		// .env is optional
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "", "Config environment (local, dev, prod); defaults to $ENV or local")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config file; overrides --env")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log engine operations to stderr")
	rootCmd.Version = version.Version
}
