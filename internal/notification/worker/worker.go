// Package worker drains the notification outbox and delivers email.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/Pet-projects-for-experience/Backend/internal/auth/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/lock"
	"github.com/Pet-projects-for-experience/Backend/internal/notification/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/notification/provider"
)

const (
	defaultInterval = 30 * time.Second
	batchSize       = 50

	dispatchLockKey = "codepet:notification:dispatch"
	dispatchLockTTL = 25 * time.Second
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Provider provider.Provider
	AuthSvc  authdomain.Service
	Locker   *lock.Locker `optional:"true"`
}

// Dispatcher delivers pending outbox rows. When several instances run,
// a redis lock elects one dispatcher per pass.
type Dispatcher struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	provider provider.Provider
	authSvc  authdomain.Service
	locker   *lock.Locker
	interval time.Duration
}

func New(p Params) *Dispatcher {
	return &Dispatcher{
		db:       p.DB,
		log:      p.Log.Named("notification.dispatcher"),
		repo:     p.Repo,
		provider: p.Provider,
		authSvc:  p.AuthSvc,
		locker:   p.Locker,
		interval: defaultInterval,
	}
}

func (d *Dispatcher) RunForever(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runOnce(ctx)
		}
	}
}

func (d *Dispatcher) runOnce(ctx context.Context) {
	if d.locker != nil {
		token, ok, err := d.locker.TryLock(ctx, dispatchLockKey, dispatchLockTTL)
		if err != nil {
			d.log.Warn("dispatch lock unavailable", zap.Error(err))
			return
		}
		if !ok {
			return
		}
		defer func() {
			if err := d.locker.Release(ctx, dispatchLockKey, token); err != nil {
				d.log.Warn("dispatch lock release failed", zap.Error(err))
			}
		}()
	}

	pending, err := d.repo.ListPending(ctx, d.db, batchSize)
	if err != nil {
		d.log.Warn("failed to list pending notifications", zap.Error(err))
		return
	}

	for _, notification := range pending {
		d.deliver(ctx, notification)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, notification *domain.Notification) {
	notification.Attempts++
	notification.UpdatedAt = time.Now().UTC()

	err := d.send(ctx, notification)
	if err != nil {
		notification.LastError = err.Error()
		d.log.Warn("notification delivery failed",
			zap.String("notification_id", notification.ID.String()),
			zap.Int("attempts", notification.Attempts),
			zap.Error(err))
		if markErr := d.repo.MarkFailed(ctx, d.db, notification); markErr != nil {
			d.log.Warn("failed to record delivery failure", zap.Error(markErr))
		}
		return
	}

	now := time.Now().UTC()
	notification.SentAt = &now
	if err := d.repo.MarkSent(ctx, d.db, notification); err != nil {
		d.log.Warn("failed to record delivery", zap.Error(err))
		return
	}

	d.log.Info("notification delivered",
		zap.String("notification_id", notification.ID.String()),
		zap.String("type", notification.Type))
}

func (d *Dispatcher) send(ctx context.Context, notification *domain.Notification) error {
	user, err := d.authSvc.GetUser(ctx, notification.UserID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	subject, body, err := render(notification)
	if err != nil {
		return err
	}
	return d.provider.Send(ctx, []string{user.Email}, subject, body)
}

func render(notification *domain.Notification) (string, string, error) {
	switch notification.Type {
	case domain.TypeProjectInvitation:
		var payload struct {
			ProjectName string `json:"project_name"`
			Profession  string `json:"profession"`
		}
		if err := json.Unmarshal(notification.Payload, &payload); err != nil {
			return "", "", fmt.Errorf("decode payload: %w", err)
		}
		subject := "Вас приглашают в проект"
		body := fmt.Sprintf(
			"<p>Вас приглашают в проект «%s» на позицию «%s».</p><p>Ответить на приглашение можно в личном кабинете CodePET.</p>",
			html.EscapeString(payload.ProjectName),
			html.EscapeString(payload.Profession),
		)
		return subject, body, nil
	default:
		return "", "", domain.ErrUnknownType
	}
}

var Module = fx.Module("notification.worker",
	fx.Provide(New),
	fx.Invoke(Start),
)

func Start(lc fx.Lifecycle, dispatcher *Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go dispatcher.RunForever(ctx)

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
