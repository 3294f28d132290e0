// Package worker runs the periodic project auto-completion job.
package worker

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Pet-projects-for-experience/Backend/internal/clock"
	"github.com/Pet-projects-for-experience/Backend/internal/project/domain"
)

const defaultInterval = time.Hour

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	ProjectSvc domain.Service
}

// Completer periodically moves active projects past their end date to ended.
type Completer struct {
	log        *zap.Logger
	clock      clock.Clock
	projectSvc domain.Service
	interval   time.Duration
}

func New(p Params) *Completer {
	return &Completer{
		log:        p.Log.Named("project.completer"),
		clock:      p.Clock,
		projectSvc: p.ProjectSvc,
		interval:   defaultInterval,
	}
}

// RunForever ticks until the context is cancelled.
func (c *Completer) RunForever(ctx context.Context) {
	c.runOnce(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runOnce(ctx)
		}
	}
}

func (c *Completer) runOnce(ctx context.Context) {
	if _, err := c.projectSvc.CompleteEndedProjects(ctx); err != nil {
		c.log.Warn("project auto-completion pass failed", zap.Error(err))
	}
}

var Module = fx.Module("project.worker",
	fx.Provide(New),
	fx.Invoke(Start),
)

func Start(lc fx.Lifecycle, completer *Completer) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go completer.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
