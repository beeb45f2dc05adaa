package module

import (
	"context"
	"fmt"
	"time"

	"go-chms/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const resyncTimeout = 30 * time.Second

// Resync periodically refreshes the registry on a cron schedule.
type Resync struct {
	registry *Registry
	schedule string
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewResync(cfg *config.Config, registry *Registry, logger *zap.Logger) *Resync {
	return &Resync{registry: registry, schedule: cfg.ModuleRefreshSchedule, logger: logger}
}

func (r *Resync) Start() error {
	if r.schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid module refresh schedule %q: %w", r.schedule, err)
	}

	r.cron = cron.New()
	if _, err := r.cron.AddFunc(r.schedule, r.run); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("Module resync scheduled", zap.String("schedule", r.schedule))
	return nil
}

func (r *Resync) Stop() {
	if r.cron == nil {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Resync) run() {
	ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
	defer cancel()

	if err := r.registry.Refresh(ctx); err != nil {
		r.logger.Warn("Scheduled module refresh degraded", zap.Error(err))
	}
}
