package services

import (
	"net/mail"
	"strings"

	"github.com/applypilot/applypilot-web/internal/models"
	"github.com/applypilot/applypilot-web/internal/stores"
)

type MatcherService struct {
	Apps *stores.ApplicationStore
}

func NewMatcherService(apps *stores.ApplicationStore) *MatcherService {
	return &MatcherService{Apps: apps}
}

// FindCandidates matches an email to the tracked applications whose company it
// seems to be about. Terminal applications (OFFER/REJECTED) are skipped — no
// status left to update.
//
// Rules, in order, per company name:
//  1. subject contains the company name
//  2. sender display name contains it ("Stripe Recruiting" -> Stripe)
//  3. sender domain contains it (jobs@stripe.com -> stripe)
func (m *MatcherService) FindCandidates(subject, rawSender string) []models.Application {
	// Parse "Display Name <addr@host>" into its two halves
	senderName := ""
	senderAddr := strings.ToLower(rawSender)
	if parsed, err := mail.ParseAddress(rawSender); err == nil {
		senderName = strings.ToLower(parsed.Name)
		senderAddr = strings.ToLower(parsed.Address)
	}

	senderDomain := ""
	if parts := strings.Split(senderAddr, "@"); len(parts) == 2 {
		senderDomain = parts[1]
	}

	subjectLower := strings.ToLower(subject)

	var matched []models.Application
	for _, app := range m.Apps.Snapshot() {
		if models.IsTerminalStatus(app.Status) {
			continue
		}

		companyName := strings.ToLower(app.CompanyName)
		// Very short names match everything ("X", "Go"), so skip them
		if len(companyName) < 3 {
			continue
		}

		if strings.Contains(subjectLower, companyName) ||
			(senderName != "" && strings.Contains(senderName, companyName)) ||
			(senderDomain != "" && strings.Contains(senderDomain, companyName)) {
			matched = append(matched, app)
		}
	}

	return matched
}
