package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
)

const purgeTimeout = 30 * time.Second

type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeJob deletes expired sessions so stale rows do not pile up between logins.
type PurgeJob struct {
	purger sessionPurger
	logger *slog.Logger
}

func NewPurgeJob(purger sessionPurger, logger *slog.Logger) *PurgeJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurgeJob{purger: purger, logger: logger.With("job", "session_purge")}
}

// Run implements cron.Job.
func (j *PurgeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()
	ctx = logging.IntoContext(ctx, j.logger)

	n, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("session_purge_failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info("session_purge_done", "deleted", n)
	}
}

// StartPurge schedules job on spec and starts the scheduler. Callers stop it with Stop.
func StartPurge(spec string, job *PurgeJob) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddJob(spec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(job)); err != nil {
		return nil, fmt.Errorf("schedule session purge %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
