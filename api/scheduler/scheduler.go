package scheduler

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/medipulse/medipulse-api/emergency"
	"github.com/medipulse/medipulse-api/models"
	templates "github.com/medipulse/medipulse-api/templates/html"
)

// staleAfter is how long a Critical case may sit unassigned before the
// on-call address is alerted.
const staleAfter = 15 * time.Minute

// Scheduler handles periodic background jobs for the emergency desk
type Scheduler struct {
	cron  *cron.Cron
	Cases *emergency.Store

	// alerted tracks case IDs we already emailed about so each stale case
	// produces exactly one alert. mu serializes whole sweeps: a sweep stalled
	// on email delivery must not race the next tick.
	mu      sync.Mutex
	alerted map[int]bool

	now func() time.Time
}

// New creates a scheduler sweeping the given case store
func New(cases *emergency.Store) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		Cases:   cases,
		alerted: make(map[int]bool),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep for stale critical emergencies every 5 minutes
	_, err := s.cron.AddFunc("*/5 * * * *", s.sweepStaleCritical)
	if err != nil {
		zap.S().Errorw("failed to register stale case sweep", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Emergency desk scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Emergency desk scheduler stopped")
}

// sweepStaleCritical finds Critical cases still Active after staleAfter and
// emails the on-call address about them.
func (s *Scheduler) sweepStaleCritical() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-staleAfter)

	var stale []models.Emergency
	for _, e := range s.Cases.GetAll() {
		if e.Severity != models.SeverityCritical || e.Status != models.StatusActive {
			continue
		}
		if e.CreatedAt.After(cutoff) || s.alerted[e.ID] {
			continue
		}
		stale = append(stale, e)
	}
	if len(stale) == 0 {
		return
	}

	zap.S().Infow("found stale critical emergencies", "count", len(stale))

	var lines []string
	for _, e := range stale {
		lines = append(lines, fmt.Sprintf("Case #%d: %s at %s, reported %s by %s",
			e.ID, e.EmergencyType, e.Location, e.CreatedAt.Format(time.RFC3339), e.PatientName))
	}
	body := fmt.Sprintf("The following critical emergencies have been waiting for a responder for over %v:\n\n%s",
		staleAfter, strings.Join(lines, "\n"))

	if err := s.sendAlertEmail("Unassigned critical emergencies", body); err != nil {
		zap.S().Errorw("failed to send stale case alert", "error", err)
		return
	}
	for _, e := range stale {
		s.alerted[e.ID] = true
	}
}

// sendAlertEmail delivers an operational alert to ALERT_EMAIL_TO via sendgrid.
// It is a no-op when either env var is unset, so local runs stay quiet.
func (s *Scheduler) sendAlertEmail(subject, plainText string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	toEmail := os.Getenv("ALERT_EMAIL_TO")
	if apiKey == "" || toEmail == "" {
		zap.S().Debug("sendgrid not configured, skipping alert email")
		return nil
	}

	fromEmail := os.Getenv("ALERT_EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "no-reply@medipulse.example.com"
	}
	from := mail.NewEmail("MediPulse Alerts", fromEmail)
	to := mail.NewEmail("On-call desk", toEmail)
	htmlContent := templates.RenderAlertEmail(subject, plainText)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
		return fmt.Errorf("sendgrid status %d", response.StatusCode)
	}
	return nil
}
