package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/go-drift/stage/cmd/stage/internal/project"
	"github.com/go-drift/stage/cmd/stage/internal/sim"
	"github.com/go-drift/stage/pkg/stage"
)

func newSimulateCommand() *cobra.Command {
	var (
		scriptPath string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "simulate [dir]",
		Short: "Replay a step script against a headless host",
		Long: `simulate builds a headless stage from stage.yaml, runs the steps in
the script file and prints the final state.

Script format:

  steps:
    - open: Inventory
    - switch: [Inventory, Shop]
    - get: Bullet
    - return: Bullet
    - scene: Level2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := project.FindProjectRoot(projectDir(args))
			if err != nil {
				return err
			}
			res, err := project.Resolve(root)
			if err != nil {
				return err
			}
			if err := res.Config.Validate(); err != nil {
				return err
			}
			script, err := sim.LoadScript(scriptPath)
			if err != nil {
				return err
			}

			runner, err := sim.NewRunner(res.Config)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.Run(script); err != nil {
				return err
			}

			snap := runner.Snapshot()
			if asJSON {
				data, err := snap.JSON()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			printSnapshot(cmd.OutOrStdout(), res.AppName, snap)
			return nil
		},
	}
	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "step script (yaml)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the final state as JSON")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

func printSnapshot(w io.Writer, app string, snap *stage.Snapshot) {
	fmt.Fprintf(w, "%s\n", app)
	fmt.Fprintf(w, "stack (%d):\n", len(snap.Stack))
	for i, key := range snap.Stack {
		fmt.Fprintf(w, "  %d %s\n", i+1, key)
	}
	fmt.Fprintf(w, "surfaces (%d):\n", len(snap.Surfaces))
	for _, s := range snap.Surfaces {
		state := "hidden"
		if s.Active {
			state = "shown"
		}
		fmt.Fprintf(w, "  %-16s %-6s order=%d\n", s.Key, state, s.Order)
	}
	fmt.Fprintf(w, "pools (%d):\n", len(snap.Pools))
	for _, p := range snap.Pools {
		fmt.Fprintf(w, "  %-16s live=%d in-use=%d free=%d high-water=%d\n", p.Pool, p.Live, p.InUse, p.Free, p.HighWater)
	}
}
