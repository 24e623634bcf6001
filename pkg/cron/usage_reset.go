package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"postpro_backend/pkg/usage"
)

func InitUsageResetCron() {
	c := cron.New()

	// Hourly: records carry their own reset timestamps, so the sweep only
	// touches rows that are actually due. Re-running is a no-op.
	_, err := c.AddFunc("10 * * * *", func() {
		resetDueUsageCounters()
	})

	if err != nil {
		log.Printf("Could not initialize usage reset cron: %v", err)
		return
	}

	c.Start()
}

func resetDueUsageCounters() {
	count, err := usage.ResetMonthlyCounters(time.Now())
	if err != nil {
		log.Printf("Error resetting monthly usage counters: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Reset monthly usage counters for %d users", count)
	}
}
