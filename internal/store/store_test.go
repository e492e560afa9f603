package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := newTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "section-gen",
			InputTokens: 200, OutputTokens: 900, LatencyMs: 1200, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "section-gen",
			InputTokens: 180, OutputTokens: 0, LatencyMs: 400, Success: false,
			ErrorMessage: "rate limited"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "ping",
			InputTokens: 5, OutputTokens: 3, LatencyMs: 100, Success: true},
	}
	for _, ev := range events {
		if err := repo.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	// Newest first.
	if all[0].Purpose != "ping" {
		t.Fatalf("expected newest event first, got %q", all[0].Purpose)
	}
}

func TestQueryLLMEvents_Filters(t *testing.T) {
	s := newTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	seed := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "section-gen", Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "section-gen", Success: false},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "speech", Success: true},
	}
	for _, ev := range seed {
		if err := repo.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "section-gen"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 section-gen events, got %d", len(byPurpose))
	}

	failed, err := repo.QueryLLMEvents(ctx, QueryOpts{FailedOnly: true})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(failed) != 1 || failed[0].Success {
		t.Fatalf("expected 1 failed event, got %d", len(failed))
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 event with limit, got %d", len(limited))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := newTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "image",
		Success: true, RequestBody: "[user]\nA red sofa\n",
		ResponseBody: "ok",
	}
	if err := repo.AppendLLMRequest(ctx, data); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil || len(all) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(all))
	}

	ev, err := repo.GetLLMEvent(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ev == nil {
		t.Fatal("expected event, got nil")
	}
	if ev.RequestBody != data.RequestBody {
		t.Fatalf("request body mismatch: %q", ev.RequestBody)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}
}

func TestLLMUsageAggregation(t *testing.T) {
	s := newTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	seed := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "section-gen",
			InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "section-gen",
			InputTokens: 120, OutputTokens: 0, LatencyMs: 300, Success: false},
		{Provider: "gemini", Model: "gemini-2.5-pro", Purpose: "ping",
			InputTokens: 4, OutputTokens: 2, LatencyMs: 80, Success: true},
	}
	for _, ev := range seed {
		if err := repo.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purpose groups, got %d", len(byPurpose))
	}
	for _, row := range byPurpose {
		if row.Key == "section-gen" {
			if row.Requests != 2 || row.Failures != 1 {
				t.Fatalf("section-gen: requests=%d failures=%d", row.Requests, row.Failures)
			}
			if row.InputTokens != 220 || row.OutputTokens != 400 {
				t.Fatalf("section-gen tokens: in=%d out=%d", row.InputTokens, row.OutputTokens)
			}
		}
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("expected 2 model groups, got %d", len(byModel))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(dsn)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s1.EventRepo().AppendLLMRequest(context.Background(), LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "ping", Success: true,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s1.Close()

	s2, err := Open(dsn)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	all, err := s2.EventRepo().QueryLLMEvents(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected event to survive reopen, got %d", len(all))
	}
}
