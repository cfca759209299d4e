package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"gorm.io/gorm"

	"github.com/applypilot/applypilot-web/internal/models"
	"github.com/applypilot/applypilot-web/internal/stores"
)

// EmailService watches the user's inbox for recruiting emails and pushes
// status changes through the applications store. The core backend stays the
// source of truth; only the dedup table, the history bookmark and the event
// log live in the local DB.
type EmailService struct {
	DB             *gorm.DB
	LLMService     *LLMService
	MatcherService *MatcherService
	Apps           *stores.ApplicationStore
	GmailClient    *gmail.Service
	Interval       time.Duration
}

func NewEmailService(db *gorm.DB, llm *LLMService, matcher *MatcherService, apps *stores.ApplicationStore, gmailSvc *gmail.Service, interval time.Duration) *EmailService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &EmailService{
		DB:             db,
		LLMService:     llm,
		MatcherService: matcher,
		Apps:           apps,
		GmailClient:    gmailSvc,
		Interval:       interval,
	}
}

// StartWatcher starts the background polling loop.
func (s *EmailService) StartWatcher() {
	if s.GmailClient == nil || s.DB == nil || s.LLMService == nil {
		log.Println("⚠️ Email Watcher disabled (needs Gmail client, local DB and Gemini key).")
		return
	}

	ticker := time.NewTicker(s.Interval)

	// Run immediately on startup
	go s.SyncEmails()

	go func() {
		for range ticker.C {
			s.SyncEmails()
		}
	}()
}

// SyncEmails runs one sync cycle: pick a strategy, fetch, dedup, process.
func (s *EmailService) SyncEmails() {
	// 2 minute ceiling so a bad cycle can't hang forever
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Println("📧 Email Watcher: starting sync cycle...")

	// Warm the applications cache; without it there is nothing to match against
	if _, err := s.Apps.List(ctx, nil); err != nil {
		log.Printf("⚠️ Could not refresh applications from backend: %v (using cached copy)", err)
	}

	state := s.loadState()

	var messages []*gmail.Message
	var newHistoryID uint64
	var err error

	// Bootstrap (full) on first run, incremental after
	if state.LastHistoryID == 0 {
		log.Println("🆕 First run detected. Running full bootstrap sync...")
		messages, newHistoryID, err = s.performFullSync(ctx)
	} else {
		messages, newHistoryID, err = s.performIncrementalSync(ctx, state.LastHistoryID)

		// Google expires old history ids with a 404; fall back to a full scan
		if err != nil && isHistoryExpiredError(err) {
			log.Println("⚠️ History id expired. Falling back to full sync.")
			messages, newHistoryID, err = s.performFullSync(ctx)
		}
	}
	if err != nil {
		log.Printf("❌ Sync failed: %v", err)
		return
	}

	if len(messages) == 0 {
		log.Println("✅ No new relevant emails found.")
		// Still move the bookmark so this window isn't re-scanned
		if newHistoryID > state.LastHistoryID {
			s.saveHistoryID(state, newHistoryID)
		}
		return
	}

	log.Printf("📥 Processing %d candidate emails...", len(messages))

	for _, msg := range messages {
		var count int64
		s.DB.Model(&models.ProcessedEmail{}).Where("id = ?", msg.Id).Count(&count)
		if count > 0 {
			continue // already handled
		}

		s.processSingleEmail(ctx, msg)

		s.DB.Create(&models.ProcessedEmail{ID: msg.Id})
	}

	if newHistoryID > state.LastHistoryID {
		s.saveHistoryID(state, newHistoryID)
		log.Printf("🔖 History bookmark moved to %d", newHistoryID)
	}
}

// performFullSync scans the last 7 days and resets the history anchor.
func (s *EmailService) performFullSync(ctx context.Context) ([]*gmail.Message, uint64, error) {
	var resp *gmail.ListMessagesResponse

	q := "subject:(application OR interview OR update OR offer OR rejected OR status) newer_than:7d"

	err := retry(3, 1*time.Second, func() error {
		var e error
		call := s.GmailClient.Users.Messages.List("me").Q(q).MaxResults(50)
		resp, e = call.Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, 0, err
	}

	profile, err := s.GmailClient.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, 0, err
	}

	return s.expandMessages(ctx, resp.Messages), profile.HistoryId, nil
}

// performIncrementalSync asks Google only for what changed since startID.
func (s *EmailService) performIncrementalSync(ctx context.Context, startID uint64) ([]*gmail.Message, uint64, error) {
	var resp *gmail.ListHistoryResponse

	err := retry(3, 1*time.Second, func() error {
		var e error
		call := s.GmailClient.Users.History.List("me").StartHistoryId(startID)
		// Only added messages matter, not label churn
		call.HistoryTypes("messageAdded")
		resp, e = call.Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, 0, err
	}

	var headers []*gmail.Message
	for _, h := range resp.History {
		for _, added := range h.MessagesAdded {
			if added.Message != nil {
				headers = append(headers, added.Message)
			}
		}
	}

	return s.expandMessages(ctx, headers), resp.HistoryId, nil
}

// expandMessages fetches full bodies/headers for a list of message ids.
func (s *EmailService) expandMessages(ctx context.Context, headers []*gmail.Message) []*gmail.Message {
	var full []*gmail.Message
	for _, h := range headers {
		_ = retry(2, 500*time.Millisecond, func() error {
			msg, err := s.GmailClient.Users.Messages.Get("me", h.Id).Context(ctx).Do()
			if err == nil {
				full = append(full, msg)
			}
			return err
		})
	}
	return full
}

// processSingleEmail: match -> disambiguate -> analyze -> push status.
func (s *EmailService) processSingleEmail(ctx context.Context, msg *gmail.Message) {
	headers := parseHeaders(msg)
	subject := headers["Subject"]
	sender := headers["From"]

	shortSub := subject
	if len(shortSub) > 20 {
		shortSub = shortSub[:20] + "..."
	}
	logPrefix := fmt.Sprintf("[Email: %s]", shortSub)

	log.Printf("%s 📥 START processing from: %s", logPrefix, sender)

	body := getEmailBody(msg)

	// --- STEP 1: MATCH ---
	candidates := s.MatcherService.FindCandidates(subject, sender)
	if len(candidates) == 0 {
		log.Printf("%s ❌ SKIPPED: no active application matches this sender/subject.", logPrefix)
		return
	}

	var target *models.Application
	if len(candidates) == 1 {
		target = &candidates[0]
		log.Printf("%s 🎯 Auto-linked to %s @ %s", logPrefix, target.RoleTitle, target.CompanyName)
	} else {
		// Several open applications at the same company: let the LLM pick
		var titles []string
		for _, app := range candidates {
			titles = append(titles, app.RoleTitle)
		}
		log.Printf("%s ⚠️ Ambiguous: %d applications (%v). Asking LLM to pick...", logPrefix, len(candidates), titles)

		idx := s.LLMService.IdentifyJobRole(titles, subject, body)
		if idx == -1 {
			log.Printf("%s ❌ SKIPPED: LLM could not tell which application this is about.", logPrefix)
			return
		}
		target = &candidates[idx]
		log.Printf("%s 🎯 LLM selected: %s", logPrefix, target.RoleTitle)
	}

	// --- STEP 2: ANALYZE ---
	log.Printf("%s 🤖 Analyzing content with LLM...", logPrefix)
	analysisJSON, err := s.LLMService.AnalyzeEmailStatus(target.CompanyName, subject, body)
	if err != nil {
		log.Printf("%s ❌ SKIPPED: LLM analysis error: %v", logPrefix, err)
		return
	}

	var result struct {
		Status  string `json:"status"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(analysisJSON), &result); err != nil {
		log.Printf("%s ❌ SKIPPED: JSON parse error: %v. Raw: %s", logPrefix, err, analysisJSON)
		return
	}

	log.Printf("%s 🧠 LLM decision: status=%s | summary=%s", logPrefix, result.Status, result.Summary)

	if result.Status == "NO_CHANGE" || result.Status == "UNKNOWN" {
		log.Printf("%s ⏹️  Nothing to push (status is %s).", logPrefix, result.Status)
		return
	}
	if !models.IsKnownStatus(result.Status) {
		log.Printf("%s ⏹️  LLM invented status %q, ignoring.", logPrefix, result.Status)
		return
	}
	if result.Status == target.Status {
		log.Printf("%s ⏹️  Status is already %s. Ignoring.", logPrefix, result.Status)
		return
	}

	// --- STEP 3: PUSH THROUGH THE STORE ---
	// The backend owns the record; the cache only changes from its answer.
	log.Printf("%s ⚡ Pushing status change: %s -> %s", logPrefix, target.Status, result.Status)
	updated, err := s.Apps.SetStatus(ctx, target.ID, result.Status)
	if err != nil {
		log.Printf("%s ❌ Backend rejected status update: %v", logPrefix, err)
		return
	}

	event := models.ApplicationEvent{
		ApplicationID: updated.ID,
		EventType:     "EMAIL_UPDATE",
		Details:       fmt.Sprintf("Status changed to %s. Summary: %s", updated.Status, result.Summary),
	}
	s.DB.Create(&event)
	log.Printf("%s ✅ Success! Event logged.", logPrefix)
}

// --- HELPERS ---

func (s *EmailService) loadState() *models.WatcherState {
	var state models.WatcherState
	if err := s.DB.First(&state).Error; err != nil {
		state = models.WatcherState{LastHistoryID: 0}
		s.DB.Create(&state)
	}
	return &state
}

func (s *EmailService) saveHistoryID(state *models.WatcherState, newID uint64) {
	s.DB.Model(&models.WatcherState{}).Where("id = ?", state.ID).Update("last_history_id", newID)
	state.LastHistoryID = newID
}

// retry runs f with exponential backoff. History-expired errors fail fast so
// the caller can switch to a full sync.
func retry(attempts int, sleep time.Duration, f func() error) error {
	for i := 0; i < attempts; i++ {
		err := f()
		if err == nil {
			return nil
		}
		if isHistoryExpiredError(err) {
			return err
		}

		log.Printf("⚠️ Gmail API error: %v. Retrying in %v...", err, sleep)
		time.Sleep(sleep)
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts", attempts)
}

func isHistoryExpiredError(err error) bool {
	if gErr, ok := err.(*googleapi.Error); ok {
		return gErr.Code == 404
	}
	return false
}

func parseHeaders(msg *gmail.Message) map[string]string {
	res := make(map[string]string)
	for _, h := range msg.Payload.Headers {
		res[h.Name] = h.Value
	}
	return res
}

func getEmailBody(msg *gmail.Message) string {
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		d, _ := base64.URLEncoding.DecodeString(msg.Payload.Body.Data)
		return string(d)
	}
	for _, part := range msg.Payload.Parts {
		if part.MimeType == "text/plain" && part.Body.Data != "" {
			d, _ := base64.URLEncoding.DecodeString(part.Body.Data)
			return string(d)
		}
	}
	for _, part := range msg.Payload.Parts {
		if part.MimeType == "text/html" && part.Body.Data != "" {
			d, _ := base64.URLEncoding.DecodeString(part.Body.Data)
			return string(d)
		}
	}
	return ""
}
