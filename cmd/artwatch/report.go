package main

import (
	"github.com/spf13/cobra"

	artwatch "github.com/kailas-cloud/artwatch/pkg/sdk"
)

var (
	findingsLimit   int
	findingsOffset  int
	historyLimit    int
	domainsCategory string
	domainsLimit    int
)

func init() {
	findingsCmd.Flags().IntVarP(&findingsLimit, "limit", "n", 50, "Page size (1-500)")
	findingsCmd.Flags().IntVar(&findingsOffset, "offset", 0, "Page offset")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum number of searches")
	domainsCmd.Flags().StringVar(&domainsCategory, "category", "",
		"List one category (auction, marketplace, museum, social, academic, other) instead of suspicious domains")
	domainsCmd.Flags().IntVarP(&domainsLimit, "limit", "n", 50, "Maximum number of domains with --category")

	rootCmd.AddCommand(findingsCmd, requestCmd, historyCmd, domainsCmd, statsCmd)
}

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "List interesting searches, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withClient(cmd, func(c *artwatch.Client) (any, error) {
			return c.Findings(cmd.Context(), findingsOffset, findingsLimit)
		})
	},
}

var requestCmd = &cobra.Command{
	Use:   "request <request-id>",
	Short: "Show one scored search with its matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(c *artwatch.Client) (any, error) {
			return c.Request(cmd.Context(), args[0])
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <artwork-id>",
	Short: "List the searches of one artwork, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(c *artwatch.Client) (any, error) {
			return c.ArtworkSearches(cmd.Context(), args[0], historyLimit)
		})
	},
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List suspicious domains, or the domains of one category",
	Long: `List domains flagged as suspicious, most frequent first.

Examples:
  artwatch domains
  artwatch domains --category auction --limit 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withClient(cmd, func(c *artwatch.Client) (any, error) {
			if domainsCategory != "" {
				return c.DomainsByCategory(cmd.Context(), domainsCategory, domainsLimit)
			}
			return c.SuspiciousDomains(cmd.Context())
		})
	},
}

type statsOutput struct {
	artwatch.Stats
	Cost artwatch.CostSummary `json:"cost"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show search volume and spend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withClient(cmd, func(c *artwatch.Client) (any, error) {
			st, err := c.Stats(cmd.Context())
			if err != nil {
				return nil, err
			}
			cost, err := c.Cost(cmd.Context())
			if err != nil {
				return nil, err
			}
			return statsOutput{Stats: st, Cost: cost}, nil
		})
	},
}

// withClient opens a client, runs fn and prints its result as JSON.
func withClient(cmd *cobra.Command, fn func(*artwatch.Client) (any, error)) error {
	client, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Close()

	v, err := fn(client)
	if err != nil {
		return err
	}
	return outputJSON(v)
}
