package store

import (
	"context"
	"testing"
)

func TestLLMEvents_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "xai", Model: "grok-3", Purpose: "tutor-turn", InputTokens: 100, OutputTokens: 40, LatencyMs: 800, Success: true, RequestBody: "[user]\nhi", ResponseBody: "hello"},
		{Provider: "xai", Model: "grok-3", Purpose: "tutor-turn", InputTokens: 120, OutputTokens: 0, LatencyMs: 200, Success: false, ErrorMessage: "rate limited"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "chat-api", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].Purpose != "chat-api" {
		t.Errorf("expected newest first, got %q", all[0].Purpose)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 event, got %d", len(limited))
	}

	tutor, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "tutor-turn"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(tutor) != 2 {
		t.Fatalf("expected 2 tutor events, got %d", len(tutor))
	}

	first := all[2]
	got, err := repo.GetLLMEvent(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "[user]\nhi" || got.ResponseBody != "hello" || !got.Success {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}
}

func TestLLMEvents_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "grok-3", Purpose: "tutor-turn", InputTokens: 100, OutputTokens: 40, LatencyMs: 800, Success: true},
		{Model: "grok-3", Purpose: "tutor-turn", InputTokens: 50, OutputTokens: 10, LatencyMs: 400, Success: true},
		{Model: "gpt-4o-mini", Purpose: "chat-api", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(byPurpose))
	}
	tutor := byPurpose[1]
	if tutor.Purpose != "tutor-turn" || tutor.Calls != 2 || tutor.InputTokens != 150 || tutor.OutputTokens != 50 || tutor.AvgLatencyMs != 600 {
		t.Errorf("unexpected tutor usage: %+v", tutor)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "grok-3" || byModel[1].Calls != 2 {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}
