package main

import (
	"github.com/spf13/cobra"

	artwatch "github.com/kailas-cloud/artwatch/pkg/sdk"
)

var (
	similarMethod        string
	similarThreshold     int
	similarClipThreshold float64
	similarLimit         int
	duplicatesThreshold  int
)

func init() {
	similarCmd.Flags().StringVarP(&similarMethod, "method", "m", "hybrid", "Similarity method: hash, clip, hybrid")
	similarCmd.Flags().IntVarP(&similarThreshold, "threshold", "t", 0, "Maximum Hamming distance (0-64); method default when unset")
	similarCmd.Flags().Float64Var(&similarClipThreshold, "clip-threshold", 0, "Minimum cosine similarity (0-1); method default when unset")
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 10, "Maximum number of results (1-100)")
	rootCmd.AddCommand(similarCmd)

	duplicatesCmd.Flags().IntVarP(&duplicatesThreshold, "threshold", "t", artwatch.DefaultDuplicateThreshold,
		"Maximum Hamming distance to a group anchor")
	rootCmd.AddCommand(duplicatesCmd)
}

var similarCmd = &cobra.Command{
	Use:   "similar <artwork-id>",
	Short: "Find artworks similar to one artwork",
	Long: `Find artworks similar to one artwork by perceptual hash, image embedding
or both.

Examples:
  artwatch similar 1042
  artwatch similar 1042 --method hash --threshold 8
  artwatch similar 1042 --method clip --clip-threshold 0.9 --limit 20`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := artwatch.SimilarOptions{Method: artwatch.Method(similarMethod), Limit: similarLimit}
	if cmd.Flags().Changed("threshold") {
		opts.HashThreshold = &similarThreshold
	}
	if cmd.Flags().Changed("clip-threshold") {
		opts.ClipThreshold = &similarClipThreshold
	}

	results, err := client.Similar(ctx, args[0], opts)
	if err != nil {
		return err
	}
	if results == nil {
		results = []artwatch.SimilarArtwork{}
	}
	return outputJSON(results)
}

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Group near-duplicate artworks",
	Long: `Group artworks whose perceptual hashes lie within the threshold of a
group anchor. Groups of one are omitted.

Example:
  artwatch duplicates --threshold 3`,
	Args: cobra.NoArgs,
	RunE: runDuplicates,
}

func runDuplicates(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	groups, err := client.Duplicates(ctx, duplicatesThreshold)
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []artwatch.DuplicateGroup{}
	}
	return outputJSON(groups)
}
