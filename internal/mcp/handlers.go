package mcp

import (
	"context"
	"log/slog"
	"strings"

	gosdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
	"github.com/rlmctx/rlmctx/internal/insight"
	"github.com/rlmctx/rlmctx/internal/nav"
	"github.com/rlmctx/rlmctx/internal/retention"
	"github.com/rlmctx/rlmctx/internal/search"
	"github.com/rlmctx/rlmctx/internal/session"
)

func (s *Server) handleRemember(ctx context.Context, _ *gosdk.CallToolRequest, input RememberInput) (
	*gosdk.CallToolResult, RememberOutput, error,
) {
	if input.Content == "" {
		return nil, RememberOutput{}, NewInvalidParamsError("content is required")
	}

	category := insight.Category(input.Category)
	if category == "" {
		category = insight.CategoryGeneral
	}
	importance := insight.Importance(input.Importance)
	if importance == "" {
		importance = insight.ImportanceMedium
	}

	id, err := s.insights.Remember(insight.RememberInput{
		Content:    input.Content,
		Category:   category,
		Importance: importance,
		Tags:       input.Tags,
	})
	if err != nil {
		return nil, RememberOutput{}, MapError(err)
	}
	return nil, RememberOutput{ID: id}, nil
}

func (s *Server) handleRecall(ctx context.Context, _ *gosdk.CallToolRequest, input RecallInput) (
	*gosdk.CallToolResult, RecallOutput, error,
) {
	insights, err := s.insights.Recall(insight.RecallFilter{
		Query:      input.Query,
		Category:   insight.Category(input.Category),
		Importance: insight.Importance(input.Importance),
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, RecallOutput{}, MapError(err)
	}

	out := make([]InsightOutput, 0, len(insights))
	for _, ins := range insights {
		out = append(out, InsightOutput{
			ID:         ins.ID,
			Content:    ins.Content,
			Category:   string(ins.Category),
			Importance: string(ins.Importance),
			Tags:       ins.Tags,
			CreatedAt:  ins.CreatedAt,
		})
	}
	return nil, RecallOutput{Insights: out}, nil
}

func (s *Server) handleForget(ctx context.Context, _ *gosdk.CallToolRequest, input ForgetInput) (
	*gosdk.CallToolResult, ForgetOutput, error,
) {
	if input.ID == "" {
		return nil, ForgetOutput{}, NewInvalidParamsError("id is required")
	}
	if err := s.insights.Forget(input.ID); err != nil {
		return nil, ForgetOutput{}, MapError(err)
	}
	return nil, ForgetOutput{Removed: true}, nil
}

func (s *Server) handleStatus(ctx context.Context, _ *gosdk.CallToolRequest, _ StatusInput) (
	*gosdk.CallToolResult, StatusOutput, error,
) {
	chunks, err := s.chunks.ListChunks(chunkstore.ListFilter{})
	if err != nil {
		return nil, StatusOutput{}, MapError(err)
	}

	var active, archived, tokens int
	for _, c := range chunks {
		if c.Archived {
			archived++
		} else {
			active++
		}
		tokens += c.TokensEstimate
	}

	insights, err := s.insights.Recall(insight.RecallFilter{})
	if err != nil {
		return nil, StatusOutput{}, MapError(err)
	}

	out := StatusOutput{
		StorageRoot:         s.config.Storage.Root,
		ActiveChunks:        active,
		ArchivedChunks:      archived,
		TotalTokensEstimate: tokens,
		InsightsCount:       len(insights),
	}
	if s.embedder != nil {
		out.EmbeddingProvider = s.embedder.Name()
		out.EmbeddingAvailable = s.embedder.Available(ctx)
	}
	return nil, out, nil
}

func (s *Server) handleChunk(ctx context.Context, _ *gosdk.CallToolRequest, input ChunkInput) (
	*gosdk.CallToolResult, ChunkOutput, error,
) {
	if input.Content == "" {
		return nil, ChunkOutput{}, NewInvalidParamsError("content is required")
	}

	project := input.Project
	if project == "" {
		project = s.defaultProject
	}

	result, err := s.chunks.Create(chunkstore.CreateInput{
		Content: input.Content,
		Summary: input.Summary,
		Tags:    input.Tags,
		Project: project,
		Ticket:  input.Ticket,
		Domain:  input.Domain,
	})
	if err != nil {
		return nil, ChunkOutput{}, MapError(err)
	}

	if !result.Duplicate {
		if _, err := s.sessions.RegisterChunk(project, input.Domain, result.ChunkID); err != nil {
			return nil, ChunkOutput{}, MapError(err)
		}
		s.embedAndStore(ctx, result.ChunkID, input.Content, result.Summary, input.Tags, project, input.Domain)
	}

	return nil, ChunkOutput{
		ChunkID:   result.ChunkID,
		Duplicate: result.Duplicate,
		Summary:   result.Summary,
		Tokens:    result.Tokens,
	}, nil
}

// embedAndStore encodes a newly created chunk and persists its vector,
// best-effort: the text is prefixed with summary, tags, project, and
// domain so metadata contributes to semantic similarity, matching the
// corpus text search builds over the same chunk. Failures are logged and
// silently ignored — chunk creation never fails because embedding did.
func (s *Server) embedAndStore(ctx context.Context, chunkID, content, summary string, tags []string, project, domain string) {
	if s.embedder == nil || s.vectors == nil || s.embedder.Dim() <= 0 {
		return
	}

	text := strings.Join([]string{summary, strings.Join(tags, " "), project, domain, content}, " ")
	vectors, err := s.embedder.Encode(ctx, []string{text})
	if err != nil {
		s.logger.Warn("embedding failed, skipping vector store update",
			slog.String("chunk_id", chunkID), slog.String("error", err.Error()))
		return
	}
	if len(vectors) != 1 {
		return
	}

	if err := s.vectors.Add(chunkID, vectors[0]); err != nil {
		s.logger.Warn("vector store update failed",
			slog.String("chunk_id", chunkID), slog.String("error", err.Error()))
	}
}

func (s *Server) handlePeek(ctx context.Context, _ *gosdk.CallToolRequest, input PeekInput) (
	*gosdk.CallToolResult, PeekOutput, error,
) {
	if input.ID == "" {
		return nil, PeekOutput{}, NewInvalidParamsError("id is required")
	}
	result, err := s.nav.Peek(input.ID, input.StartLine, input.EndLine)
	if err != nil {
		return nil, PeekOutput{}, MapError(err)
	}
	return nil, PeekOutput{Content: result.Content, AccessCount: result.AccessCount}, nil
}

func (s *Server) handleGrep(ctx context.Context, _ *gosdk.CallToolRequest, input GrepInput) (
	*gosdk.CallToolResult, GrepOutput, error,
) {
	if input.Pattern == "" {
		return nil, GrepOutput{}, NewInvalidParamsError("pattern is required")
	}

	filter := nav.Filter{
		Project:  input.Project,
		Domain:   input.Domain,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Entity:   input.Entity,
	}

	if input.Fuzzy {
		matches, err := s.nav.GrepFuzzy(input.Pattern, input.Threshold, filter, input.Limit)
		if err != nil {
			return nil, GrepOutput{}, MapError(err)
		}
		out := make([]GrepMatch, 0, len(matches))
		for _, m := range matches {
			out = append(out, GrepMatch{ChunkID: m.ChunkID, Line: m.Line, Text: m.Text, Score: m.Score})
		}
		return nil, GrepOutput{Matches: out}, nil
	}

	matches, err := s.nav.Grep(input.Pattern, filter, input.Limit)
	if err != nil {
		return nil, GrepOutput{}, MapError(err)
	}
	out := make([]GrepMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, GrepMatch{ChunkID: m.ChunkID, Line: m.Line, Text: m.Text})
	}
	return nil, GrepOutput{Matches: out}, nil
}

func (s *Server) handleListChunks(ctx context.Context, _ *gosdk.CallToolRequest, input ListChunksInput) (
	*gosdk.CallToolResult, ListChunksOutput, error,
) {
	filter := nav.Filter{
		Project:  input.Project,
		Domain:   input.Domain,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Entity:   input.Entity,
	}
	chunks, err := s.nav.ListChunks(filter, input.Limit)
	if err != nil {
		return nil, ListChunksOutput{}, MapError(err)
	}

	out := make([]ChunkSummary, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, ChunkSummary{
			ID:          c.ID,
			Summary:     c.Summary,
			Tags:        c.Tags,
			Project:     c.Project,
			Domain:      c.Domain,
			CreatedAt:   c.CreatedAt,
			AccessCount: c.AccessCount,
			Archived:    c.Archived,
		})
	}
	return nil, ListChunksOutput{Chunks: out}, nil
}

func (s *Server) handleSearch(ctx context.Context, _ *gosdk.CallToolRequest, input SearchInput) (
	*gosdk.CallToolResult, SearchOutput, error,
) {
	if input.Query == "" {
		return nil, SearchOutput{}, NewInvalidParamsError("query is required")
	}

	filter := search.Filter{
		Project:  input.Project,
		Domain:   input.Domain,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Entity:   input.Entity,
	}
	results, err := s.engine.Query(ctx, input.Query, filter, input.Limit, input.IncludeInsights)
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}

	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResult{
			ID:      r.ID,
			Kind:    string(r.Kind),
			Score:   r.Score,
			Preview: r.Preview,
		})
	}
	return nil, SearchOutput{Results: out}, nil
}

func (s *Server) handleSessions(ctx context.Context, _ *gosdk.CallToolRequest, input SessionsInput) (
	*gosdk.CallToolResult, SessionsOutput, error,
) {
	sessions, err := s.sessions.ListSessions(session.ListFilter{
		Project: input.Project,
		Domain:  input.Domain,
		Limit:   input.Limit,
	})
	if err != nil {
		return nil, SessionsOutput{}, MapError(err)
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionSummary{
			ID:         sess.ID,
			Date:       sess.Date,
			Project:    sess.Project,
			ChunkCount: sess.ChunkCount,
			ChunkIDs:   sess.ChunkIDs,
			Domains:    sess.Domains,
			LastUsed:   sess.LastUsed,
		})
	}
	return nil, SessionsOutput{Sessions: out}, nil
}

func (s *Server) handleDomains(ctx context.Context, _ *gosdk.CallToolRequest, _ DomainsInput) (
	*gosdk.CallToolResult, DomainsOutput, error,
) {
	domains, err := s.sessions.ListDomains()
	if err != nil {
		return nil, DomainsOutput{}, MapError(err)
	}
	return nil, DomainsOutput{Domains: domains}, nil
}

func (s *Server) handleRetentionPreview(ctx context.Context, _ *gosdk.CallToolRequest, _ RetentionPreviewInput) (
	*gosdk.CallToolResult, RetentionPreviewOutput, error,
) {
	preview, err := s.retention.Preview()
	if err != nil {
		return nil, RetentionPreviewOutput{}, MapError(err)
	}

	archiveIDs := make([]string, 0, len(preview.ArchiveCandidates))
	for _, c := range preview.ArchiveCandidates {
		archiveIDs = append(archiveIDs, c.ID)
	}
	purgeIDs := make([]string, 0, len(preview.PurgeCandidates))
	for _, c := range preview.PurgeCandidates {
		purgeIDs = append(purgeIDs, c.ID)
	}
	return nil, RetentionPreviewOutput{ArchiveCandidates: archiveIDs, PurgeCandidates: purgeIDs}, nil
}

func (s *Server) handleRetentionRun(ctx context.Context, _ *gosdk.CallToolRequest, input RetentionRunInput) (
	*gosdk.CallToolResult, RetentionRunOutput, error,
) {
	result, err := s.retention.Run(retention.RunOptions{Archive: input.Archive, Purge: input.Purge})
	if err != nil {
		return nil, RetentionRunOutput{}, MapError(err)
	}

	failures := make([]RunFailure, 0, len(result.Errors))
	for _, e := range result.Errors {
		failures = append(failures, RunFailure{ID: e.ID, Error: e.Error})
	}
	return nil, RetentionRunOutput{
		ArchivedCount: result.ArchivedCount,
		PurgedCount:   result.PurgedCount,
		Errors:        failures,
	}, nil
}

func (s *Server) handleRestore(ctx context.Context, _ *gosdk.CallToolRequest, input RestoreInput) (
	*gosdk.CallToolResult, RestoreOutput, error,
) {
	if input.ID == "" {
		return nil, RestoreOutput{}, NewInvalidParamsError("id is required")
	}
	if err := s.retention.Restore(input.ID); err != nil {
		return nil, RestoreOutput{}, MapError(err)
	}
	return nil, RestoreOutput{Restored: true}, nil
}
