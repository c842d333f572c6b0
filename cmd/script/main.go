package main

import (
	"context"
	"flag"
	"log"
	"time"

	"riskbatch/cmd"
	"riskbatch/internal"
	"riskbatch/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	dateFlag := flag.String("date", "", "calculation date (YYYY-MM-DD), defaults to today")
	backfill := flag.Bool("backfill", false, "run a price backfill instead of the daily batch")
	flag.Parse()

	handler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(handler)

	date := util.TruncateToDay(time.Now().UTC())
	if *dateFlag != "" {
		date, err = time.Parse(time.DateOnly, *dateFlag)
		if err != nil {
			log.Fatalf("invalid date %q: %v", *dateFlag, err)
		}
	}

	ctx := context.Background()
	if *backfill {
		runID, err := handler.Orchestrator.RunPriceBackfill(ctx, date)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("price backfill %s complete", runID)
		return
	}

	runID, err := handler.Orchestrator.RunDailyBatch(ctx, date)
	if err != nil {
		log.Fatal(err)
	}

	state, err := handler.Tracker.GetRun(runID)
	if err != nil {
		log.Fatal(err)
	}
	internal.Pprint(state)
}
