package janitor

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/collabforge/collabforge-backend/internal/featured/service"
)

// Janitor sweeps expired featured promotions on a cron schedule. Stores with
// native expiry make the sweep a cheap no-op, so it is safe to run anywhere.
type Janitor struct {
	svc      *service.FeaturedService
	schedule string
	cron     *cron.Cron
}

func New(svc *service.FeaturedService, schedule string) *Janitor {
	return &Janitor{svc: svc, schedule: schedule}
}

func (j *Janitor) Start() error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		purged, err := j.svc.PurgeExpired(ctx)
		if err != nil {
			log.Printf("[featured] janitor sweep failed: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("[featured] janitor purged %d expired promotions", purged)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	j.cron = c
	log.Printf("[featured] janitor started schedule=%q", j.schedule)
	return nil
}

func (j *Janitor) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}
