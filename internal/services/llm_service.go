package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/applypilot/applypilot-web/internal/dtos"
)

type LLMService struct {
	// Hold the client so we don't recreate it on every call
	Client llms.Model
}

// NewLLMService initializes the Gemini client.
func NewLLMService(apiKey string) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	ctx := context.Background()
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel("gemini-2.5-flash"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &LLMService{Client: llm}, nil
}

const enhancementPrompt = `
You are a Truthful Resume Enhancement Agent. You rewrite one fragment of a resume to be stronger WITHOUT inventing facts.

### INSTRUCTIONS:
1. **Rewrite** the fragment below (content type: %s) with stronger, more specific language.
2. **Never fabricate** numbers, scale, or outcomes. Where a concrete fact would strengthen the text but you do not know it, insert a bracketed placeholder the user must fill in, e.g. [X%%] or [N users].
3. **Explain** in one or two sentences why the rewrite stays truthful.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "enhanced_text": "The rewritten fragment, with [bracketed placeholders] for any fact the user must supply",
    "explanation": "Why this rewrite makes no claim the original did not support"
}

### ORIGINAL FRAGMENT:
%s
`

// DraftEnhancement asks Gemini for a truthful rewrite of one resume fragment.
func (s *LLMService) DraftEnhancement(ctx context.Context, original, contentType string) (*dtos.EnhanceResponse, error) {
	prompt := fmt.Sprintf(enhancementPrompt, contentType, original)
	raw, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return nil, err
	}

	var resp dtos.EnhanceResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		return nil, fmt.Errorf("enhancement output was not valid JSON: %w", err)
	}
	if resp.EnhancedText == "" {
		return nil, fmt.Errorf("enhancement output had no enhanced_text")
	}
	return &resp, nil
}

const emailStatusPrompt = `
You are a Job Application Email Analyst. An email arrived about the user's application at %s.

### INSTRUCTIONS:
1. Decide what the email means for the application status.
2. Allowed statuses: APPLIED, SCREENING, INTERVIEW, OFFER, REJECTED, NO_CHANGE, UNKNOWN.
3. Use NO_CHANGE for confirmations/receipts that change nothing, UNKNOWN when you cannot tell.
4. Output valid JSON only, no markdown blocks.

### OUTPUT SCHEMA:
{
    "status": "ONE of the allowed statuses",
    "summary": "One sentence on what the email says"
}

### SUBJECT:
%s

### BODY:
%s
`

// AnalyzeEmailStatus classifies a recruiting email. Returns the raw JSON string;
// the watcher parses and validates it.
func (s *LLMService) AnalyzeEmailStatus(companyName, subject, body string) (string, error) {
	if len(body) > 20000 {
		body = body[:20000]
	}
	prompt := fmt.Sprintf(emailStatusPrompt, companyName, subject, body)
	raw, err := llms.GenerateFromSinglePrompt(context.Background(), s.Client, prompt)
	if err != nil {
		return "", err
	}
	return stripCodeFence(raw), nil
}

const rolePickPrompt = `
You are matching a recruiting email to one of the user's job applications at the same company.

### APPLICATIONS (index: role title):
%s

### EMAIL SUBJECT:
%s

### EMAIL BODY (may be truncated):
%s

Reply with ONLY the zero-based index of the application this email is about, or -1 if you cannot tell. No other text.
`

// IdentifyJobRole disambiguates which application an email refers to.
// Returns -1 when the model can't decide (or answers garbage).
func (s *LLMService) IdentifyJobRole(titles []string, subject, body string) int {
	if len(body) > 4000 {
		body = body[:4000]
	}

	var listing strings.Builder
	for i, title := range titles {
		fmt.Fprintf(&listing, "%d: %s\n", i, title)
	}

	prompt := fmt.Sprintf(rolePickPrompt, listing.String(), subject, body)
	raw, err := llms.GenerateFromSinglePrompt(context.Background(), s.Client, prompt)
	if err != nil {
		log.Printf("⚠️ Role disambiguation call failed: %v", err)
		return -1
	}

	var idx int
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%d", &idx); err != nil {
		return -1
	}
	if idx < 0 || idx >= len(titles) {
		return -1
	}
	return idx
}

// stripCodeFence peels a ```json ... ``` wrapper off model output. Gemini is
// told not to add one but does anyway often enough to matter.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
