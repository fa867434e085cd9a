package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
	"github.com/rlmctx/rlmctx/internal/ui"
)

func newDoctorCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the storage root and embedding provider health",
		Long: `doctor verifies the storage root is writable, the chunk index
loads cleanly, and the configured embedding provider is reachable. On an interactive terminal it renders a styled panel; with
--json or on a non-TTY it prints plain results instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON")
	return cmd
}

func runDoctor(cmd *cobra.Command, jsonOutput bool) error {
	ctx := cmd.Context()
	checks := gatherDoctorChecks(ctx)

	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(checks)
	}

	if f, ok := cmd.OutOrStdout().(*os.File); ok && ui.IsTerminal(f.Fd()) && !ui.DetectNoColor() {
		if err := ui.RenderDoctor(cmd.OutOrStdout(), checks); err == nil {
			return doctorExitError(checks)
		}
	}
	ui.DoctorPlain(cmd.OutOrStdout(), checks)
	return doctorExitError(checks)
}

func gatherDoctorChecks(ctx context.Context) []ui.Check {
	var checks []ui.Check

	c, err := buildCore(ctx)
	if err != nil {
		return []ui.Check{{Name: "storage root", OK: false, Message: err.Error()}}
	}

	checks = append(checks, checkStorageWritable(c.cfg.Storage.Root))

	if _, err := c.chunks.ListChunks(chunkstore.ListFilter{}); err != nil {
		checks = append(checks, ui.Check{Name: "chunk index", OK: false, Message: err.Error()})
	} else {
		checks = append(checks, ui.Check{Name: "chunk index", OK: true, Message: "loads cleanly"})
	}

	available := c.embedder.Available(ctx)
	checks = append(checks, ui.Check{
		Name:    "embedding provider",
		OK:      true,
		Warn:    !available,
		Message: fmt.Sprintf("%s (available=%v)", c.embedder.Name(), available),
	})

	return checks
}

func checkStorageWritable(root string) ui.Check {
	probe := filepath.Join(root, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return ui.Check{Name: "storage root", OK: false, Message: err.Error()}
	}
	_ = os.Remove(probe)
	return ui.Check{Name: "storage root", OK: true, Message: root}
}

func doctorExitError(checks []ui.Check) error {
	for _, c := range checks {
		if !c.OK {
			return fmt.Errorf("doctor: one or more critical checks failed")
		}
	}
	return nil
}
