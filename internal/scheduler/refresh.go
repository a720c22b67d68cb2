// internal/scheduler/refresh.go
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dhwani-ris/frappe-desk-theme/internal/controller"
)

const refreshJobTimeout = 2 * time.Minute

// RegisterRefreshJob schedules the periodic theme refresh. The job defers to
// the cache: while a valid entry exists, no network fetch happens.
func RegisterRefreshJob(svc *Service, ctrl *controller.Controller, cronExpr string) error {
	if svc == nil {
		return errors.New("refresh job requires a scheduler")
	}
	if ctrl == nil {
		return errors.New("refresh job requires a controller")
	}

	jobName := "theme_refresh"
	jobLogger := log.With().
		Str("component", "theme_refresh_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := svc.AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		_, refreshed, err := ctrl.RefreshIfStale(ctx)
		if err != nil {
			jobLogger.Warn().Err(err).Msg("Scheduled theme refresh failed")
			return
		}
		if !refreshed {
			jobLogger.Debug().Msg("Theme cache still valid, refresh skipped")
			return
		}
		jobLogger.Info().Msg("Theme refreshed on schedule")
	})
	return err
}
