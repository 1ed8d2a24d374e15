package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ridloal/factory-inventory/internal/platform/logger"
)

const refreshTimeout = 30 * time.Second

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Info("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, err, keysAndValues...)
}

// NewRefresher schedules svc.Refresh on spec. Overlapping runs are skipped.
// The caller starts and stops the returned scheduler.
func NewRefresher(svc DashboardService, spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{}),
		cron.SkipIfStillRunning(cronLogger{}),
	))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		snap, err := svc.Refresh(ctx)
		if err != nil {
			logger.Error("Dashboard: scheduled refresh failed", err)
			return
		}
		logger.Info("Dashboard refreshed", "unavailable", len(snap.Unavailable))
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
