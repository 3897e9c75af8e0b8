package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRuleSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ruleset",
		Short: "Rule set commands",
	}

	cmd.AddCommand(newRuleSetCreateCmd())
	cmd.AddCommand(newRuleSetListCmd())
	cmd.AddCommand(newRuleSetGetCmd())

	return cmd
}

func newRuleSetCreateCmd() *cobra.Command {
	var name, policy string
	var players, m, n, k, p, q int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new rule set",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":        name,
				"num_players": players,
				"m":           m,
				"n":           n,
				"k":           k,
			}
			if policy != "" {
				req["turn_policy"] = policy
			}
			if p > 0 {
				req["p"] = p
			}
			if q > 0 {
				req["q"] = q
			}

			var result RuleSet
			if err := client.Post("/api/v1/rulesets", req, &result); err != nil {
				return err
			}

			if err := saveSession(); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Rule set name (required)")
	cmd.Flags().IntVar(&players, "players", 2, "Number of players")
	cmd.Flags().IntVar(&m, "m", 3, "Board width")
	cmd.Flags().IntVar(&n, "n", 3, "Board height")
	cmd.Flags().IntVar(&k, "k", 3, "Run length required to win")
	cmd.Flags().IntVar(&p, "p", 0, "Moves per turn under the staged policy")
	cmd.Flags().IntVar(&q, "q", 0, "Opening moves under the staged policy")
	cmd.Flags().StringVar(&policy, "policy", "", "Turn policy: round_robin, staged")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRuleSetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available rule sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RuleSetList

			if err := client.Get("/api/v1/rulesets", &result); err != nil {
				return err
			}

			if err := saveSession(); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRuleSetGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RuleSet

			if err := client.Get(fmt.Sprintf("/api/v1/rulesets/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
