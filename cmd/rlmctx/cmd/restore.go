package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rlmctx/rlmctx/internal/output"
)

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <chunk-id>",
		Short: "Restore an archived chunk back to the active zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildCore(cmd.Context())
			if err != nil {
				return err
			}
			id := args[0]
			if err := c.retention.Restore(id); err != nil {
				return err
			}
			output.New(cmd.OutOrStdout()).Success(fmt.Sprintf("restored %s", id))
			return nil
		},
	}
	return cmd
}
