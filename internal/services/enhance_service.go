package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/applypilot/applypilot-web/internal/backend"
	"github.com/applypilot/applypilot-web/internal/dtos"
)

// Suggestion states. A suggestion with unresolved placeholders can never be
// accepted as-is: it has to pass through NeedsPlaceholders first.
type EnhanceState string

const (
	StateRequested         EnhanceState = "REQUESTED"
	StateNeedsPlaceholders EnhanceState = "NEEDS_PLACEHOLDERS"
	StateVerified          EnhanceState = "VERIFIED"
	StateRejected          EnhanceState = "REJECTED"
)

// ErrPlaceholdersUnresolved is the gating state, not a failure: acceptance
// stays disabled until every placeholder has a non-empty value.
var ErrPlaceholdersUnresolved = errors.New("suggestion has unresolved placeholders")

var contentTypes = map[string]bool{
	"summary":      true,
	"bullet_point": true,
	"description":  true,
}

// Bracketed spans like [X%] or [N users], non-greedy, any inner characters.
var placeholderRegex = regexp.MustCompile(`\[[^\[\]]*?\]`)

// Suggestion pairs the original text with the candidate rewrite plus the
// placeholder tokens the user still owes values for.
type Suggestion struct {
	Original     string       `json:"original_text"`
	Candidate    string       `json:"candidate_text"`
	Explanation  string       `json:"explanation"`
	ContentType  string       `json:"content_type"`
	Placeholders []string     `json:"placeholders"`
	State        EnhanceState `json:"state"`
}

// ExtractPlaceholders returns the distinct bracket tokens of text in first-seen
// order. Running it twice on the same text gives the same set.
func ExtractPlaceholders(text string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, match := range placeholderRegex.FindAllString(text, -1) {
		if !seen[match] {
			seen[match] = true
			tokens = append(tokens, match)
		}
	}
	return tokens
}

// EnhanceService runs the truthful-enhancement flow:
// Requested -> {Verified, NeedsPlaceholders -> Verified, Rejected}.
type EnhanceService struct {
	client   *backend.Client
	llm      *LLMService
	provider string
}

func NewEnhanceService(client *backend.Client, llm *LLMService, provider string) *EnhanceService {
	if provider == "" {
		provider = "backend"
	}
	return &EnhanceService{client: client, llm: llm, provider: provider}
}

// Request asks the provider for a candidate rewrite. Validation failures are
// caught before any network call; network failures are retryable (the caller
// retries, we never auto-retry).
func (s *EnhanceService) Request(ctx context.Context, original, contentType string) (*Suggestion, error) {
	if strings.TrimSpace(original) == "" {
		return nil, fmt.Errorf("original text is required")
	}
	if !contentTypes[contentType] {
		return nil, fmt.Errorf("invalid content type %q (want summary, bullet_point or description)", contentType)
	}

	var resp *dtos.EnhanceResponse
	var err error
	if s.provider == "gemini" && s.llm != nil {
		resp, err = s.llm.DraftEnhancement(ctx, original, contentType)
	} else {
		resp = &dtos.EnhanceResponse{}
		req := dtos.EnhanceRequest{OriginalText: original, ContentType: contentType}
		err = s.client.Post(ctx, "/api/v1/resume/enhance-truthful", &req, resp)
	}
	if err != nil {
		return nil, err
	}

	sug := &Suggestion{
		Original:     original,
		Candidate:    resp.EnhancedText,
		Explanation:  resp.Explanation,
		ContentType:  contentType,
		Placeholders: ExtractPlaceholders(resp.EnhancedText),
		State:        StateRequested,
	}
	if len(sug.Placeholders) > 0 {
		sug.State = StateNeedsPlaceholders
	}
	return sug, nil
}

// Verify substitutes the user-supplied values into the candidate text. Every
// distinct token needs a non-empty, non-whitespace value; values are keyed by
// the literal bracket text, so a repeated token shares one value and every
// occurrence is replaced.
func (s *EnhanceService) Verify(sug *Suggestion, values map[string]string) (string, error) {
	final := sug.Candidate
	for _, token := range sug.Placeholders {
		value, ok := values[token]
		if !ok || strings.TrimSpace(value) == "" {
			return "", fmt.Errorf("%w: %s", ErrPlaceholdersUnresolved, token)
		}
		final = strings.ReplaceAll(final, token, value)
	}
	sug.State = StateVerified
	return final, nil
}

// Confirm re-submits the verified text to the backend so the resume record
// picks it up.
func (s *EnhanceService) Confirm(ctx context.Context, sug *Suggestion, finalText string) error {
	if sug.State != StateVerified {
		return fmt.Errorf("suggestion is %s, only VERIFIED suggestions can be confirmed", sug.State)
	}
	payload := map[string]string{
		"original_text": sug.Original,
		"final_text":    finalText,
		"content_type":  sug.ContentType,
	}
	return s.client.Post(ctx, "/api/v1/resume/confirm-enhancement", payload, nil)
}

// Reject discards the suggestion. Purely local: the original text is retained
// unchanged and no backend call happens.
func (s *EnhanceService) Reject(sug *Suggestion) {
	sug.State = StateRejected
}
