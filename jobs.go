package main

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/showdeck/showdeck/config"
	"github.com/showdeck/showdeck/content"
)

// SetupInBackground schedules the periodic content refresh. The webhook can
// still force one in between runs; the interval is a safety net for missed
// deliveries.
func SetupInBackground(cfg config.Config, refresher *content.Refresher) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	interval := time.Duration(cfg.Content.RefreshMinutes) * time.Minute

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := refresher.Refresh(); err != nil {
				slog.Warn("Scheduled content refresh failed", slog.Any("error", err))
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}
