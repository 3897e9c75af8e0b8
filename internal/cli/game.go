package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameLeaveCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameAbortCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var ruleSetID string
	var withCPU bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game and take the first seat",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"rule_set_id": ruleSetID,
				"with_cpu":    withCPU,
			}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
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

	cmd.Flags().StringVar(&ruleSetID, "ruleset", "", "Rule set ID (required)")
	cmd.Flags().BoolVar(&withCPU, "cpu", false, "Seat the CPU opponent")
	_ = cmd.MarkFlagRequired("ruleset")

	return cmd
}

func newGameListCmd() *cobra.Command {
	var state string
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games (open games by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games"
			if mine {
				path += "?mine=true"
			} else if state != "" {
				path += "?state=" + state
			}

			var result GameList
			if err := client.Get(path, &result); err != nil {
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

	cmd.Flags().StringVar(&state, "state", "", "Filter by state: waiting, playing, win, draw, aborted")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only games the current player is seated in")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <id>",
		Short: "Join a waiting game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/join", args[0]), nil, &result); err != nil {
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

func newGameLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/leave", args[0]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left game")
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Claim a cell in a game",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x: %w", err)
			}

			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y: %w", err)
			}

			req := map[string]int{"x": x, "y": y}
			var result Game

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/move", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameAbortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abort <id>",
		Short: "Abort a game you are seated in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/abort", args[0]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game aborted")
			return nil
		},
	}
}
