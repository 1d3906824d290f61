package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"confposter/pkg/config"
	"confposter/pkg/logger"
	"confposter/pkg/models"
	"confposter/pkg/retry"
)

// RowStore reads and mutates confession rows in the remote table.
type RowStore interface {
	FetchConfessions(ctx context.Context, table string) []models.Confession
	SetPosted(ctx context.Context, table string, srNo int64, posted bool) bool
}

// Publisher submits media to the platform and reports publish quota.
type Publisher interface {
	CreateMedia(ctx context.Context, imageURL, caption string) (string, error)
	PublishMedia(ctx context.Context, creationID string) (string, error)
	ContentPublishingLimit(ctx context.Context) *models.Quota
}

// Alerter notifies an operator about a published row whose status commit
// could not be recorded.
type Alerter interface {
	CommitFailed(ctx context.Context, recipient, table string, row models.Confession)
}

// StopReason says why a run stopped publishing.
type StopReason string

const (
	StopOutsideWindow  StopReason = "outside_window"
	StopQuotaUnknown   StopReason = "quota_unknown"
	StopQuotaExhausted StopReason = "quota_exhausted"
	StopNoCandidates   StopReason = "no_candidates"
	StopCapReached     StopReason = "cap_reached"
	StopCancelled      StopReason = "cancelled"
	StopComplete       StopReason = "complete"
)

// RunSummary reports the outcome of one publishing run.
type RunSummary struct {
	RunID     string     `json:"run_id"`
	Tenant    string     `json:"tenant"`
	Eligible  int        `json:"eligible"`
	Attempted int        `json:"attempted"`
	Succeeded int        `json:"succeeded"`
	Stopped   StopReason `json:"stopped"`
}

// Scheduler runs the publishing batch for one tenant: time gate, quota
// admission, candidate selection and the bounded publish loop. One
// Scheduler instance per tenant; runs are sequential.
type Scheduler struct {
	store     RowStore
	publisher Publisher
	alerts    Alerter
	clock     Clock
	tenant    config.Tenant
	cfg       config.SchedulerConfig
	logger    logger.Logger
}

// New creates a Scheduler for a tenant.
func New(store RowStore, publisher Publisher, alerts Alerter, tenant config.Tenant, cfg config.SchedulerConfig, clock Clock, log logger.Logger) *Scheduler {
	if clock == nil {
		clock = NewSystemClock()
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scheduler{
		store:     store,
		publisher: publisher,
		alerts:    alerts,
		clock:     clock,
		tenant:    tenant,
		cfg:       cfg,
		logger:    log,
	}
}

// Run executes one publishing batch and returns its summary. No failure
// inside the run is fatal; every failure path either skips a row or stops
// the loop early, and the summary records why.
func (s *Scheduler) Run(ctx context.Context) RunSummary {
	summary := RunSummary{
		RunID:  uuid.New().String(),
		Tenant: s.tenant.Name,
	}
	log := s.logger.WithFields(map[string]interface{}{
		"run_id": summary.RunID,
		"tenant": s.tenant.Name,
	})

	now := s.clock.Now()
	if !withinWindow(now, s.cfg.WindowOpenHour, s.cfg.WindowCloseHour) {
		log.InfoWithFields("outside posting window, skipping run", map[string]interface{}{
			"hour":       now.Hour(),
			"open_hour":  s.cfg.WindowOpenHour,
			"close_hour": s.cfg.WindowCloseHour,
		})
		summary.Stopped = StopOutsideWindow
		return summary
	}

	quota := s.publisher.ContentPublishingLimit(ctx)
	if quota == nil {
		log.Error("could not retrieve publishing limit, aborting run")
		summary.Stopped = StopQuotaUnknown
		return summary
	}
	if quota.Exhausted() {
		log.WarnWithFields("publish quota reached, skipping run", map[string]interface{}{
			"usage": quota.Usage,
			"limit": quota.Limit,
		})
		summary.Stopped = StopQuotaExhausted
		return summary
	}

	rows := s.store.FetchConfessions(ctx, s.tenant.Table)
	candidates := SelectEligible(rows)
	summary.Eligible = len(candidates)
	if len(candidates) == 0 {
		log.Info("no eligible confessions, nothing to do")
		summary.Stopped = StopNoCandidates
		return summary
	}

	log.InfoWithFields("starting publish loop", map[string]interface{}{
		"eligible":  len(candidates),
		"max_posts": s.cfg.MaxPostsPerRun,
	})

	for _, cand := range candidates {
		if summary.Succeeded >= s.cfg.MaxPostsPerRun {
			log.InfoWithFields("post cap reached, stopping", map[string]interface{}{
				"cap": s.cfg.MaxPostsPerRun,
			})
			summary.Stopped = StopCapReached
			break
		}

		rowLog := log.WithFields(map[string]interface{}{
			"sr_no":    cand.Row.SrNo,
			"priority": cand.Priority,
		})
		rowLog.InfoWithFields("publishing confession", map[string]interface{}{
			"image_url": cand.Row.ImagekitURL,
		})

		creationID, err := s.publisher.CreateMedia(ctx, cand.Row.ImagekitURL, s.tenant.Caption)
		if err != nil {
			rowLog.WithError(err).Error("failed to create media, skipping row")
			continue
		}

		mediaID, err := s.publisher.PublishMedia(ctx, creationID)
		summary.Attempted++
		if err != nil {
			rowLog.WithError(err).Error("failed to publish media, skipping row")
			continue
		}

		// The platform has published the image at this point; the row
		// counts as succeeded even if the status commit below fails.
		s.commitPosted(ctx, rowLog, cand.Row)
		summary.Succeeded++
		rowLog.InfoWithFields("confession posted", map[string]interface{}{
			"media_id": mediaID,
		})

		if summary.Succeeded < s.cfg.MaxPostsPerRun {
			if err := s.clock.Sleep(ctx, s.cfg.PostDelay); err != nil {
				rowLog.WithError(err).Warn("run cancelled during post pacing")
				summary.Stopped = StopCancelled
				break
			}
		}

		quota = s.publisher.ContentPublishingLimit(ctx)
		if quota == nil {
			log.Error("could not re-check publishing limit, stopping run")
			summary.Stopped = StopQuotaUnknown
			break
		}
		if quota.Exhausted() {
			log.WarnWithFields("publish quota reached mid-run, stopping", map[string]interface{}{
				"usage": quota.Usage,
				"limit": quota.Limit,
			})
			summary.Stopped = StopQuotaExhausted
			break
		}
	}

	if summary.Stopped == "" {
		summary.Stopped = StopComplete
	}

	log.InfoWithFields("run finished", map[string]interface{}{
		"eligible":  summary.Eligible,
		"attempted": summary.Attempted,
		"succeeded": summary.Succeeded,
		"stopped":   string(summary.Stopped),
	})
	return summary
}

// commitPosted durably records the row as posted, retrying a bounded
// number of times with fixed spacing. Exhaustion emits one operator
// alert: the image is live but the table disagrees, which needs manual
// reconciliation.
func (s *Scheduler) commitPosted(ctx context.Context, log logger.Logger, row models.Confession) {
	err := retry.Do(func() error {
		if !s.store.SetPosted(ctx, s.tenant.Table, row.SrNo, true) {
			return fmt.Errorf("posted status update rejected for sr_no %d", row.SrNo)
		}
		return nil
	}, &retry.Config{
		MaxAttempts: s.cfg.CommitAttempts,
		Backoff:     &retry.ConstantBackoff{Delay: s.cfg.CommitRetryDelay},
		RetryIf:     func(error) bool { return true },
		Context:     ctx,
		Logger:      log,
	})
	if err == nil {
		return
	}

	log.WithError(err).ErrorWithFields("could not record posted status, alerting operator", map[string]interface{}{
		"attempts": s.cfg.CommitAttempts,
	})
	if s.alerts != nil {
		s.alerts.CommitFailed(ctx, s.tenant.AlertRecipient, s.tenant.Table, row)
	}
}

// CountReady returns how many confessions are eligible for posting,
// logging each candidate with its priority.
func (s *Scheduler) CountReady(ctx context.Context) int {
	rows := s.store.FetchConfessions(ctx, s.tenant.Table)
	candidates := SelectEligible(rows)

	for _, cand := range candidates {
		s.logger.InfoWithFields("confession ready", map[string]interface{}{
			"tenant":    s.tenant.Name,
			"sr_no":     cand.Row.SrNo,
			"priority":  cand.Priority,
			"image_url": cand.Row.ImagekitURL,
		})
	}

	s.logger.InfoWithFields("ready confessions counted", map[string]interface{}{
		"tenant": s.tenant.Name,
		"table":  s.tenant.Table,
		"count":  len(candidates),
	})
	return len(candidates)
}

// TestQuota fetches and logs the current quota snapshot. Returns nil when
// the quota could not be retrieved.
func (s *Scheduler) TestQuota(ctx context.Context) *models.Quota {
	quota := s.publisher.ContentPublishingLimit(ctx)
	if quota == nil {
		s.logger.ErrorWithFields("could not retrieve publishing limit", map[string]interface{}{
			"tenant": s.tenant.Name,
		})
		return nil
	}

	s.logger.InfoWithFields("publishing limit", map[string]interface{}{
		"tenant": s.tenant.Name,
		"usage":  quota.Usage,
		"limit":  quota.Limit,
	})
	return quota
}

// Tenant returns the tenant this scheduler publishes for.
func (s *Scheduler) Tenant() config.Tenant {
	return s.tenant
}
