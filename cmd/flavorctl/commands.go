package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alchemorsel/flavorgraph/internal/application/pairing"
	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/container"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/security"
	"github.com/alchemorsel/flavorgraph/internal/ports/inbound"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options shared by every command
type options struct {
	seedPath string
	asJSON   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "flavorctl",
		Short:         "Query the ingredient similarity graph without running the server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.seedPath, "seed", "", "seed file (default: embedded seed)")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newQueryCmd(opts),
		newPairCmd(opts),
		newStatsCmd(opts),
		newValidateSeedCmd(),
	)
	return root
}

// service builds an in-process pairing service over the chosen seed
func (o *options) service() (*pairing.Service, error) {
	seed, err := container.LoadSeed(o.seedPath)
	if err != nil {
		return nil, err
	}
	g, err := ingredient.Build(seed)
	if err != nil {
		return nil, err
	}
	return pairing.NewService(ingredient.NewHolder(g), nil, nil, security.NewValidator(), nil, pairing.Config{}, zap.NewNop()), nil
}

func newQueryCmd(opts *options) *cobra.Command {
	var (
		action string
		limit  int
		sort   string
	)

	cmd := &cobra.Command{
		Use:   "query <ingredient>...",
		Short: "Suggest complementary ingredients, substitutes or both",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}

			req := inbound.SimilarityRequest{Ingredients: args, Action: action, Sort: sort}
			if cmd.Flags().Changed("limit") {
				req.Limit = &limit
			}
			resp, err := svc.Query(context.Background(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, resp)
			}
			if resp.SuggestionList != nil {
				printSuggestions(out, resp.Action, resp.Suggestions)
			}
			if resp.PairingLists != nil {
				printSuggestions(out, inbound.ActionComplementary, resp.Complementary)
				printSuggestions(out, inbound.ActionSubstitutes, resp.Substitutes)
			}
			if len(resp.UnknownIngredients) > 0 {
				fmt.Fprintf(out, "unknown: %s\n", strings.Join(resp.UnknownIngredients, ", "))
			}
			fmt.Fprintln(out, resp.Reasoning)
			return nil
		},
	}

	cmd.Flags().StringVarP(&action, "action", "a", inbound.ActionPairing, "complementary, substitutes or pairing")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum suggestions per list")
	cmd.Flags().StringVar(&sort, "sort", "", `"score" re-sorts merged lists by score`)
	return cmd
}

func newPairCmd(opts *options) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "pair <a> <b>",
		Short: "Score two ingredients against each other",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}

			resp, err := svc.Pair(context.Background(), inbound.PairRequest{A: args[0], B: args[1], Strategy: strategy})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, resp)
			}
			path := "unreachable"
			if len(resp.Path) > 0 {
				path = strings.Join(resp.Path, " -> ")
			}
			fmt.Fprintf(out, "%s ~ %s = %.4f (%s)\npath: %s\n", resp.A, resp.B, resp.Similarity, resp.Strategy, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", inbound.StrategyBFS, "bfs or weighted")
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print graph size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}

			resp, err := svc.Stats(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, resp)
			}
			s := resp.Stats
			fmt.Fprintf(out, "nodes: %d\nedges: %d\naverage degree: %.2f\ncomponents: %d\n",
				s.NodeCount, s.EdgeCount, s.AverageDegree, s.Components)
			return nil
		},
	}
}

func newValidateSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seed <file>",
		Short: "Check that a seed file parses and builds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := ingredient.LoadSeedFile(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			g, err := ingredient.Build(seed)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			s := g.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d ingredients, %d edges)\n", args[0], s.NodeCount, s.EdgeCount)
			return nil
		},
	}
}

func printSuggestions(out io.Writer, title string, suggestions []ingredient.Suggestion) {
	fmt.Fprintf(out, "%s:\n", title)
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, s := range suggestions {
		fmt.Fprintf(tw, "  %s\t%.3f\n", s.Ingredient, s.Score)
	}
	tw.Flush()
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
