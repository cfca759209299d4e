package dtos

type EnhanceRequest struct {
	OriginalText string `json:"original_text" binding:"required"`
	ContentType  string `json:"content_type" binding:"required,oneof=summary bullet_point description"`
}

// EnhanceResponse is what the truthful-enhancement provider answers: a
// candidate rewrite plus the reasoning for why it stays truthful.
type EnhanceResponse struct {
	EnhancedText string `json:"enhanced_text"`
	Explanation  string `json:"explanation"`
}

// EnhanceConfirmRequest resolves a suggestion: every bracket placeholder in
// CandidateText needs a non-empty value before the final text is accepted.
type EnhanceConfirmRequest struct {
	OriginalText      string            `json:"original_text" binding:"required"`
	CandidateText     string            `json:"candidate_text" binding:"required"`
	ContentType       string            `json:"content_type" binding:"required,oneof=summary bullet_point description"`
	PlaceholderValues map[string]string `json:"placeholder_values"`
}

type EnhanceConfirmResponse struct {
	FinalText string `json:"final_text"`
	Confirmed bool   `json:"confirmed"`
}
