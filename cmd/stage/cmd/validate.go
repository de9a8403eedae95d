package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/stage/cmd/stage/internal/project"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check the project's stage.yaml",
		Args:  cobra.MaximumNArgs(1),
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
				return fmt.Errorf("%s: invalid stage.yaml:\n%w", res.AppName, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok\n", res.AppName)
			for _, p := range res.Config.Pools {
				fmt.Fprintf(out, "  pool %-16s %s x%d\n", p.PoolName(), p.Template, p.Initial)
			}
			for _, s := range res.Config.Surfaces.Preload {
				fmt.Fprintf(out, "  surface %s\n", s)
			}
			return nil
		},
	}
}
