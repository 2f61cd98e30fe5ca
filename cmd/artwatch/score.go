package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/artwatch/internal/domain"
	artwatch "github.com/kailas-cloud/artwatch/pkg/sdk"
)

var scoreFile string

func init() {
	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "-", "Vision results JSON file, or - for stdin")
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score <artwork-id>",
	Short: "Score one reverse image search result",
	Long: `Score one reverse image search result for an artwork, store it and update
domain reputation when it is interesting.

The input has the same shape as the body of
POST /artworks/{artwork_id}/vision-results.

Examples:
  artwatch score 1042 --file results.json
  cat results.json | artwatch score 1042`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	results, err := readVisionResults(cmd.InOrStdin(), scoreFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	req, err := client.Score(ctx, args[0], results)
	if err != nil {
		return err
	}
	return outputJSON(req)
}

func readVisionResults(stdin io.Reader, path string) (artwatch.VisionResults, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return artwatch.VisionResults{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var out artwatch.VisionResults
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return artwatch.VisionResults{}, fmt.Errorf("%w: decode vision results: %v", domain.ErrInvalidRequest, err)
	}
	return out, nil
}
