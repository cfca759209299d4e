package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot-web/internal/backend"
	"github.com/applypilot/applypilot-web/internal/dtos"
)

func TestExtractPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "two distinct tokens",
			text:     "Increased output by [X%] across [N users]",
			expected: []string{"[X%]", "[N users]"},
		},
		{
			name:     "repeated token appears once",
			text:     "Cut costs by [X%], then by another [X%]",
			expected: []string{"[X%]"},
		},
		{
			name:     "no tokens",
			text:     "Shipped the billing service",
			expected: nil,
		},
		{
			name:     "adjacent brackets are separate tokens",
			text:     "[A][B]",
			expected: []string{"[A]", "[B]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPlaceholders(tt.text)
			assert.Equal(t, tt.expected, got)

			// Extraction is idempotent: same input, same token set
			assert.Equal(t, got, ExtractPlaceholders(tt.text))
		})
	}
}

func enhanceServiceAgainst(t *testing.T, handler http.HandlerFunc) *EnhanceService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewEnhanceService(backend.New(server.URL, 5*time.Second), nil, "backend")
}

func TestEnhanceRequest_InvalidContentTypeNeverHitsNetwork(t *testing.T) {
	calls := 0
	svc := enhanceServiceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("{}"))
	})

	_, err := svc.Request(context.Background(), "some text", "haiku")
	require.Error(t, err)
	assert.Equal(t, 0, calls, "validation failures must be caught before any network call")

	_, err = svc.Request(context.Background(), "   ", "summary")
	require.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestEnhanceRequest_PlaceholdersGateTheSuggestion(t *testing.T) {
	svc := enhanceServiceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/resume/enhance-truthful", r.URL.Path)
		json.NewEncoder(w).Encode(dtos.EnhanceResponse{
			EnhancedText: "Increased output by [X%] across [N users]",
			Explanation:  "Quantified impact without inventing numbers",
		})
	})

	sug, err := svc.Request(context.Background(), "Improved team output", "bullet_point")
	require.NoError(t, err)
	assert.Equal(t, StateNeedsPlaceholders, sug.State)
	assert.Equal(t, []string{"[X%]", "[N users]"}, sug.Placeholders)
}

func TestEnhanceVerify_RequiresEveryValue(t *testing.T) {
	sug := &Suggestion{
		Candidate:    "Increased output by [X%] across [N users]",
		Placeholders: ExtractPlaceholders("Increased output by [X%] across [N users]"),
		State:        StateNeedsPlaceholders,
	}
	svc := NewEnhanceService(nil, nil, "backend")

	// Missing one value: gated
	_, err := svc.Verify(sug, map[string]string{"[X%]": "20%"})
	require.ErrorIs(t, err, ErrPlaceholdersUnresolved)

	// Whitespace-only is not a value
	_, err = svc.Verify(sug, map[string]string{"[X%]": "20%", "[N users]": "   "})
	require.ErrorIs(t, err, ErrPlaceholdersUnresolved)

	// All values present: every literal occurrence substituted
	final, err := svc.Verify(sug, map[string]string{"[X%]": "20%", "[N users]": "500"})
	require.NoError(t, err)
	assert.Equal(t, "Increased output by 20% across 500", final)
	assert.Equal(t, StateVerified, sug.State)
}

func TestEnhanceVerify_RepeatedTokenSharesOneValue(t *testing.T) {
	candidate := "Cut latency by [X%] and costs by [X%]"
	sug := &Suggestion{
		Candidate:    candidate,
		Placeholders: ExtractPlaceholders(candidate),
		State:        StateNeedsPlaceholders,
	}
	svc := NewEnhanceService(nil, nil, "backend")

	final, err := svc.Verify(sug, map[string]string{"[X%]": "30%"})
	require.NoError(t, err)
	assert.Equal(t, "Cut latency by 30% and costs by 30%", final)
}

func TestEnhanceVerify_NoPlaceholdersPassesThrough(t *testing.T) {
	sug := &Suggestion{Candidate: "Shipped the billing service", State: StateRequested}
	svc := NewEnhanceService(nil, nil, "backend")

	final, err := svc.Verify(sug, nil)
	require.NoError(t, err)
	assert.Equal(t, "Shipped the billing service", final)
	assert.Equal(t, StateVerified, sug.State)
}

func TestEnhanceConfirm_OnlyVerifiedSuggestions(t *testing.T) {
	confirmed := false
	svc := enhanceServiceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/resume/confirm-enhancement", r.URL.Path)
		confirmed = true
		w.Write([]byte("{}"))
	})

	sug := &Suggestion{Original: "a", Candidate: "b", ContentType: "summary", State: StateRequested}
	require.Error(t, svc.Confirm(context.Background(), sug, "b"))
	assert.False(t, confirmed)

	sug.State = StateVerified
	require.NoError(t, svc.Confirm(context.Background(), sug, "b"))
	assert.True(t, confirmed)
}

func TestEnhanceReject_IsPurelyLocal(t *testing.T) {
	calls := 0
	svc := enhanceServiceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("{}"))
	})

	sug := &Suggestion{Original: "keep me", Candidate: "discard me", State: StateNeedsPlaceholders}
	svc.Reject(sug)

	assert.Equal(t, StateRejected, sug.State)
	assert.Equal(t, "keep me", sug.Original, "original text is retained unchanged")
	assert.Equal(t, 0, calls, "rejection must not call the backend")
}

func TestEnhanceRequest_NetworkFailureIsRetryableNotRetried(t *testing.T) {
	calls := 0
	svc := enhanceServiceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "provider unavailable"})
	})

	_, err := svc.Request(context.Background(), "Improved team output", "summary")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "the flow must not auto-retry")
}
