package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"honeypot-lab/internal/config"
	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

// agentNotesLimit caps how much of the reply is quoted in the report.
const agentNotesLimit = 50

// Reporter delivers session findings to the remote evaluation endpoint on
// a best-effort basis, decoupled from the request/response path. One
// delivery attempt per job: failures are logged and dropped, never retried
// and never surfaced to any caller.
type Reporter struct {
	queue      chan models.ReportJob
	httpClient *http.Client
	config     config.CallbackConfig
	logger     *logger.Logger

	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewReporter creates a Reporter and starts its delivery workers.
func NewReporter(cfg config.CallbackConfig, log *logger.Logger) *Reporter {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}

	r := &Reporter{
		queue: make(chan models.ReportJob, cfg.QueueSize),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.WithComponent("reporter"),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	r.logger.Info().Int("workers", cfg.WorkerCount).Msg("report delivery workers started")

	return r
}

// Enqueue schedules a job for background delivery. Non-blocking: when the
// queue is full the job is dropped with a warning, because reporting is
// best-effort and must never delay the conversational path.
func (r *Reporter) Enqueue(job models.ReportJob) {
	if job.Score < models.ReportMinScore {
		r.logger.Debug().
			Str("session_id", job.SessionID).
			Int("score", job.Score).
			Msg("score below report threshold, skipping")
		return
	}

	select {
	case r.queue <- job:
	default:
		r.logger.Warn().
			Str("session_id", job.SessionID).
			Str("job_id", job.ID.String()).
			Msg("report queue full, dropping job")
	}
}

// Stop stops the workers after draining in-flight deliveries.
func (r *Reporter) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.logger.Info().Msg("reporter stopped")
}

func (r *Reporter) worker(id int) {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopCh:
			for {
				select {
				case job := <-r.queue:
					r.deliver(job)
				default:
					r.logger.Debug().Int("worker", id).Msg("report worker stopping")
					return
				}
			}
		case job := <-r.queue:
			r.deliver(job)
		}
	}
}

// deliver performs the single delivery attempt for a job.
func (r *Reporter) deliver(job models.ReportJob) {
	payload := buildPayload(job)

	body, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to marshal report")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.URL, bytes.NewReader(body))
	if err != nil {
		r.logger.Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to build report request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("session_id", job.SessionID).
			Str("job_id", job.ID.String()).
			Msg("report delivery failed")
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Error().
			Int("status", resp.StatusCode).
			Str("session_id", job.SessionID).
			Str("job_id", job.ID.String()).
			Msg("report rejected by evaluation endpoint")
		return
	}

	r.logger.Info().
		Str("session_id", job.SessionID).
		Int("status", resp.StatusCode).
		Bool("scam_detected", payload.ScamDetected).
		Msg("report delivered")
}

// buildPayload maps a job to the evaluation endpoint's wire shape.
func buildPayload(job models.ReportJob) models.ReportPayload {
	return models.ReportPayload{
		SessionID:              job.SessionID,
		ScamDetected:           job.Score > models.ScamThreshold,
		TotalMessagesExchanged: job.TotalMessages,
		ExtractedIntelligence: models.ExtractedIntelligence{
			BankAccounts:       []string{},
			UPIIDs:             orEmpty(job.Indicators.PaymentHandles),
			PhishingLinks:      orEmpty(job.Indicators.Links),
			PhoneNumbers:       orEmpty(job.Indicators.PhoneNumbers),
			SuspiciousKeywords: orEmpty(job.Keywords),
		},
		AgentNotes: fmt.Sprintf("Score: %d. Reply: %s...", job.Score, truncate(job.Reply, agentNotesLimit)),
	}
}

// orEmpty keeps intelligence fields as JSON arrays, never null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// truncate shortens s to at most n runes. Generated replies are not
// ASCII-only, so a byte slice could cut a rune in half.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
