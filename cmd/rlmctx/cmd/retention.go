package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rlmctx/rlmctx/internal/output"
	"github.com/rlmctx/rlmctx/internal/retention"
)

func newRetentionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retention",
		Short: "Inspect and run the archive/purge lifecycle",
	}
	cmd.AddCommand(newRetentionPreviewCmd())
	cmd.AddCommand(newRetentionRunCmd())
	return cmd
}

func newRetentionPreviewCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "List chunks eligible for archive or purge, without side effects",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildCore(cmd.Context())
			if err != nil {
				return err
			}
			result, err := c.retention.Preview()
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}
			printPreview(output.New(cmd.OutOrStdout()), result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}

func newRetentionRunCmd() *cobra.Command {
	var archive, purge, asJSON bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Archive or purge eligible chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !archive && !purge {
				archive, purge = true, true
			}
			c, err := buildCore(cmd.Context())
			if err != nil {
				return err
			}
			result, err := c.retention.Run(retention.RunOptions{Archive: archive, Purge: purge})
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}
			printRunResult(output.New(cmd.OutOrStdout()), result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&archive, "archive", false, "run the archive phase")
	cmd.Flags().BoolVar(&purge, "purge", false, "run the purge phase")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}

func printPreview(out *output.Writer, result retention.PreviewResult) {
	out.Statusf("🗄️", "%d chunks eligible for archive", len(result.ArchiveCandidates))
	for _, c := range result.ArchiveCandidates {
		out.Status("", fmt.Sprintf("  %s (project=%s domain=%s)", c.ID, c.Project, c.Domain))
	}
	out.Statusf("🧹", "%d chunks eligible for purge", len(result.PurgeCandidates))
	for _, c := range result.PurgeCandidates {
		out.Status("", fmt.Sprintf("  %s (archived_at=%s)", c.ID, c.ArchivedAt))
	}
}

func printRunResult(out *output.Writer, result retention.RunResult) {
	out.Success(fmt.Sprintf("archived %d chunk(s)", result.ArchivedCount))
	out.Success(fmt.Sprintf("purged %d chunk(s)", result.PurgedCount))
	for _, e := range result.Errors {
		out.Error(fmt.Sprintf("%s: %s", e.ID, e.Error))
	}
}
