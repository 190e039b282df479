package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chalethaven/config"
	leadRepo "chalethaven/database/repository/contact"
	"chalethaven/models"
	"chalethaven/services/mailer"
	"chalethaven/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// LeadMailer delivers the owner notification for a lead.
type LeadMailer interface {
	SendLeadNotice(ctx context.Context, toEmail string, lead models.LeadNotificationPayload) error
}

// QueueRedisOpt is the asynq connection for cfg.
func QueueRedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

const maxStartAttempts = 5

// LeadWorker is the background lead notification server. It connects in the
// background so a slow Redis never delays the HTTP listener.
type LeadWorker struct {
	logger   *zap.Logger
	start    func() error
	shutdown func()
	backoff  func(attempt int) time.Duration

	mu      sync.Mutex
	running bool
	stopped bool
	stop    chan struct{}
	done    chan struct{}
}

// StartLeadWorker starts the worker in the background and returns at once.
// Call Shutdown on the result when done.
func StartLeadWorker(cfg config.Config, leads leadRepo.LeadRepository, mail LeadMailer, logger *zap.Logger) *LeadWorker {
	srv := asynq.NewServer(
		QueueRedisOpt(cfg),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeLeadNotify, HandleLeadTask(leads, mail, cfg.LeadsNotifyEmail, logger))

	w := newLeadWorker(func() error { return srv.Start(mux) }, srv.Shutdown, logger)
	go w.run()
	return w
}

func newLeadWorker(start func() error, shutdown func(), logger *zap.Logger) *LeadWorker {
	return &LeadWorker{
		logger:   logger,
		start:    start,
		shutdown: shutdown,
		backoff:  func(attempt int) time.Duration { return time.Duration(attempt*2) * time.Second },
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *LeadWorker) run() {
	defer close(w.done)
	for attempt := 1; attempt <= maxStartAttempts; attempt++ {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		err := w.start()
		if err == nil {
			w.running = true
			w.mu.Unlock()
			w.logger.Info("lead worker started", zap.Int("attempt", attempt))
			return
		}
		w.mu.Unlock()
		w.logger.Warn("lead worker failed to start", zap.Int("attempt", attempt), zap.Error(err))

		if attempt == maxStartAttempts {
			break
		}
		select {
		case <-w.stop:
			return
		case <-time.After(w.backoff(attempt)):
		}
	}
	w.logger.Error("lead worker not running; lead notifications stay queued", zap.Int("attempts", maxStartAttempts))
}

// Running reports whether the server has started.
func (w *LeadWorker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Shutdown stops pending start attempts and the server if it is running.
func (w *LeadWorker) Shutdown() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stop)
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		w.shutdown()
	}
	<-w.done
}

// HandleLeadTask emails the owner about a lead and marks it notified.
func HandleLeadTask(leads leadRepo.LeadRepository, mail LeadMailer, ownerEmail string, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseLeadNotification(task)
		if err != nil {
			logger.Error("lead task: bad payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		if ownerEmail == "" {
			logger.Info("new lead (no notification address configured)", zap.String("leadID", p.LeadID), zap.String("email", p.Email))
			return nil
		}
		if err := mail.SendLeadNotice(ctx, ownerEmail, p); err != nil {
			if errors.Is(err, mailer.ErrDisabled) {
				logger.Info("new lead (mailer disabled)", zap.String("leadID", p.LeadID), zap.String("email", p.Email))
				return nil
			}
			logger.Warn("lead notification failed", zap.String("leadID", p.LeadID), zap.Error(err))
			return err
		}

		if err := leads.MarkNotified(ctx, p.LeadID); err != nil {
			if errors.Is(err, leadRepo.ErrLeadNotFound) {
				return nil
			}
			return err
		}
		logger.Info("lead owner notified", zap.String("leadID", p.LeadID))
		return nil
	}
}
