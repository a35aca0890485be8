package jobs

import (
	"time"

	"hyvai/config"
	"hyvai/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reminderWindowDays = 3

// Runner owns the scheduled maintenance work: marking overdue tranches
// missed and queueing payment reminders for transactions falling due.
type Runner struct {
	cron         *cron.Cron
	installments *repository.InstallmentRepository
	transactions *repository.TransactionRepository
	cfg          *config.JobsConfig
	log          *logrus.Logger
}

func NewRunner(cfg *config.JobsConfig, installments *repository.InstallmentRepository, transactions *repository.TransactionRepository, log *logrus.Logger) *Runner {
	return &Runner{
		cron:         cron.New(),
		installments: installments,
		transactions: transactions,
		cfg:          cfg,
		log:          log,
	}
}

// Start registers the schedules and launches the cron loop. No-op when
// jobs are disabled.
func (r *Runner) Start() error {
	if !r.cfg.Enabled {
		r.log.Info("scheduled jobs disabled")
		return nil
	}
	if _, err := r.cron.AddFunc(r.cfg.SweepSpec, r.sweepOverdue); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc(r.cfg.SweepSpec, r.sendReminders); err != nil {
		return err
	}
	r.cron.Start()
	r.log.WithField("spec", r.cfg.SweepSpec).Info("scheduled jobs started")
	return nil
}

// Stop halts the scheduler and waits for any running job to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Runner) sweepOverdue() {
	n, err := r.installments.SweepOverdue(time.Now(), r.cfg.GraceDays)
	if err != nil {
		r.log.WithError(err).Error("overdue sweep failed")
		return
	}
	if n > 0 {
		r.log.WithField("tranches", n).Info("marked overdue tranches missed")
	}
}

func (r *Runner) sendReminders() {
	due, err := r.transactions.ListDueSoon(time.Now(), reminderWindowDays)
	if err != nil {
		r.log.WithError(err).Error("reminder scan failed")
		return
	}
	for _, tx := range due {
		if err := r.transactions.CreateReminder(tx.ID); err != nil {
			r.log.WithError(err).WithField("transaction_id", tx.ID).Error("reminder create failed")
		}
	}
	if len(due) > 0 {
		r.log.WithField("count", len(due)).Info("payment reminders queued")
	}
}
