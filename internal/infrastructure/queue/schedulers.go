package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-api/internal/shared"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisOpt asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires every periodic task. Called once by the worker.
func (s *Scheduler) RegisterJobs() error {
	return s.registerScanOverdueLoansJob()
}

// ================================================
// JOB: Scan Overdue Loans (Hourly)
// ================================================
func (s *Scheduler) registerScanOverdueLoansJob() error {
	payload, err := json.Marshal(struct{}{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeScanOverdueLoans, payload)

	_, err = s.scheduler.Register(
		"0 * * * *", // Hourly at minute 0
		task,
		asynq.Queue("default"),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register ScanOverdueLoans job")
		return err
	}

	log.Info().Msg("✓ Registered ScanOverdueLoans: hourly")
	return nil
}

// Start launches the scheduler without blocking
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

// Shutdown stops the scheduler gracefully
func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
