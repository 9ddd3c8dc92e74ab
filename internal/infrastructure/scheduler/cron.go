package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"journalwatch/internal/ports"
)

// CronScheduler runs the pipeline on a cron expression.
type CronScheduler struct {
	spec string
	cron *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler configured via cron expression string.
func NewCronScheduler(spec string) *CronScheduler {
	return &CronScheduler{spec: spec}
}

// Start runs the job once immediately, then on every cron tick until Stop
// or context cancellation.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if c.cron != nil {
		return nil
	}

	runner := cron.New()
	if _, err := runner.AddFunc(c.spec, func() { job(time.Now()) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.spec, err)
	}

	job(time.Now())
	runner.Start()
	c.cron = runner

	go func() {
		<-ctx.Done()
		_ = c.Stop(context.Background())
	}()

	return nil
}

// Stop halts the cron runner, waiting for an in-flight job to finish.
func (c *CronScheduler) Stop(_ context.Context) error {
	if c.cron == nil {
		return nil
	}
	<-c.cron.Stop().Done()
	c.cron = nil
	return nil
}
