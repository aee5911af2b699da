package cli

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/tapsense/logging"
)

const defaultReadingsSchedule = "1m"

// newReadingsScheduler returns a started scheduler that logs readings on schedule, which is either
// a duration ("30s") or a cron expression ("*/5 * * * *").
func newReadingsScheduler(
	ctx context.Context,
	schedule string,
	readings func(context.Context) (map[string]interface{}, error),
	logger logging.Logger,
) (gocron.Scheduler, error) {
	var jobType gocron.JobDefinition
	if d, err := time.ParseDuration(schedule); err == nil {
		if d <= 0 {
			return nil, errors.Errorf("readings schedule must be positive, got %v", d)
		}
		jobType = gocron.DurationJob(d)
	} else {
		jobType = gocron.CronJob(schedule, false)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = scheduler.NewJob(
		jobType,
		gocron.NewTask(func() {
			r, err := readings(ctx)
			if err != nil {
				logger.Warnw("unable to get readings", "error", err)
				return
			}
			logger.Infow("readings", "readings", r)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		goutils.UncheckedError(scheduler.Shutdown())
		return nil, errors.Wrapf(err, "invalid readings schedule %q", schedule)
	}
	scheduler.Start()
	return scheduler, nil
}
