package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/astro-match/internal/ports/jobs"
	"github.com/admin/astro-match/internal/ports/service"
)

// DefaultRetryDelays now + 1m + 10m + 30m
var DefaultRetryDelays = []time.Duration{
	1 * time.Minute,
	10 * time.Minute,
	30 * time.Minute,
}

// Scheduler запускает зарегистрированные джобы по их расписанию
type Scheduler struct {
	jobs           []jobs.Job
	retryDelays    []time.Duration
	alerterService service.IAlerterService
	log            *slog.Logger
}

func NewScheduler(log *slog.Logger, alerterService service.IAlerterService, retryDelays ...time.Duration) *Scheduler {
	if len(retryDelays) == 0 {
		retryDelays = DefaultRetryDelays
	}
	return &Scheduler{
		jobs:           make([]jobs.Job, 0),
		retryDelays:    retryDelays,
		alerterService: alerterService,
		log:            log,
	}
}

func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Start не блокирует: каждая джоба крутится в своей горутине до отмены ctx
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Warn("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	for _, job := range s.jobs {
		go s.runJob(ctx, job)
	}
	return nil
}

func (s *Scheduler) runJob(ctx context.Context, job jobs.Job) {
	jobName := job.Name()
	for {
		now := time.Now()
		timer := time.NewTimer(job.NextRun(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-timer.C:
			s.Execute(ctx, job)
		}
	}
}

// Execute один запуск джобы с ретраями и алертом, если все попытки провалились
func (s *Scheduler) Execute(ctx context.Context, job jobs.Job) {
	jobName := job.Name()

	attemptErrors, err := s.executeJobWithRetry(ctx, job)
	if err == nil {
		s.log.Info("job executed successfully", "job_name", jobName)
		return
	}

	s.log.Error("job failed after all retries",
		"job_name", jobName,
		"error", err,
		"attempts", len(attemptErrors),
	)
	s.sendAlert(ctx, jobName, attemptErrors)
}

type jobAttemptError struct {
	attempt int
	err     error
}

func (s *Scheduler) executeJobWithRetry(ctx context.Context, job jobs.Job) ([]jobAttemptError, error) {
	var attemptErrors []jobAttemptError

	for attempt := 1; attempt <= len(s.retryDelays)+1; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(s.retryDelays[attempt-2])
			select {
			case <-ctx.Done():
				timer.Stop()
				return attemptErrors, ctx.Err()
			case <-timer.C:
			}
		}

		err := job.Run(ctx)
		if err == nil {
			return nil, nil
		}

		attemptErrors = append(attemptErrors, jobAttemptError{attempt: attempt, err: err})
		s.log.Warn("job execution failed",
			"job_name", job.Name(),
			"attempt", attempt,
			"retries_remaining", len(s.retryDelays)+1-attempt,
			"error", err,
		)
	}

	return attemptErrors, fmt.Errorf("all retry attempts failed (total attempts: %d)", len(attemptErrors))
}

func (s *Scheduler) sendAlert(ctx context.Context, jobName string, attemptErrors []jobAttemptError) {
	if s.alerterService == nil {
		return
	}

	var message strings.Builder
	message.WriteString("⚠️ Scheduler job failed, retries exhausted\n\n")
	fmt.Fprintf(&message, "Job: %s\n\n", jobName)
	message.WriteString("Attempt errors:\n")
	for _, attemptErr := range attemptErrors {
		fmt.Fprintf(&message, "Attempt %d: %s\n", attemptErr.attempt, attemptErr.err)
	}

	if alertErr := s.alerterService.SendAlert(ctx, message.String()); alertErr != nil {
		s.log.Warn("failed to send job failure alert", "job_name", jobName, "error", alertErr)
	}
}
