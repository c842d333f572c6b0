package main

import (
	"context"
	"log"
	"time"

	"riskbatch/cmd"
	"riskbatch/internal/logger"
	"riskbatch/internal/util"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	handler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(handler)

	ctx := context.Background()
	handler.Tracker.StartJanitor(ctx)

	// weekdays at 22:00 UTC, after the US close
	c := cron.New()
	_, err = c.AddFunc("0 22 * * 1-5", func() {
		date := util.TruncateToDay(time.Now().UTC())
		runID, err := handler.Orchestrator.StartDailyBatchAsync(ctx, date)
		if err != nil {
			logger.Error(err)
			return
		}
		logger.Info("scheduled daily batch %s for %s", runID, date.Format(time.DateOnly))
	})
	if err != nil {
		log.Fatal(err)
	}
	c.Start()
	defer c.Stop()

	err = handler.StartApi(3009)
	if err != nil {
		log.Fatal(err)
	}
}
