package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
	"github.com/rlmctx/rlmctx/internal/insight"
	"github.com/rlmctx/rlmctx/internal/output"
)

type statusReport struct {
	StorageRoot         string `json:"storage_root"`
	ActiveChunks        int    `json:"active_chunks"`
	ArchivedChunks      int    `json:"archived_chunks"`
	TotalTokensEstimate int    `json:"total_tokens_estimate"`
	InsightsCount       int    `json:"insights_count"`
	EmbeddingProvider   string `json:"embedding_provider"`
	EmbeddingAvailable  bool   `json:"embedding_available"`
}

func newStatusCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report chunk/insight counts and embedding provider health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}

func runStatus(cmd *cobra.Command, asJSON bool) error {
	ctx := cmd.Context()
	c, err := buildCore(ctx)
	if err != nil {
		return err
	}

	report, err := gatherStatus(ctx, c)
	if err != nil {
		return err
	}

	if asJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("📂", "storage root: %s", report.StorageRoot)
	out.Statusf("🧩", "chunks: %d active, %d archived", report.ActiveChunks, report.ArchivedChunks)
	out.Statusf("🔤", "tokens estimate: %d", report.TotalTokensEstimate)
	out.Statusf("💡", "insights: %d", report.InsightsCount)
	if report.EmbeddingAvailable {
		out.Success("embedding provider " + report.EmbeddingProvider + " is available")
	} else {
		out.Warning("embedding provider " + report.EmbeddingProvider + " is unavailable, falling back to BM25-only search")
	}
	return nil
}

func gatherStatus(ctx context.Context, c *core) (statusReport, error) {
	chunks, err := c.chunks.ListChunks(chunkstore.ListFilter{})
	if err != nil {
		return statusReport{}, err
	}

	var active, archived, tokens int
	for _, ch := range chunks {
		if ch.Archived {
			archived++
		} else {
			active++
		}
		tokens += ch.TokensEstimate
	}

	insights, err := c.insights.Recall(insight.RecallFilter{})
	if err != nil {
		return statusReport{}, err
	}

	report := statusReport{
		StorageRoot:         c.cfg.Storage.Root,
		ActiveChunks:        active,
		ArchivedChunks:      archived,
		TotalTokensEstimate: tokens,
		InsightsCount:       len(insights),
	}
	if c.embedder != nil {
		report.EmbeddingProvider = c.embedder.Name()
		report.EmbeddingAvailable = c.embedder.Available(ctx)
	}
	return report, nil
}
