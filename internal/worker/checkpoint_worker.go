package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/config"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/service"
)

// CheckpointWorker consumes persist_checkpoints_queue and UPSERTs session
// snapshots to PostgreSQL. Snapshots for the same session overwrite each
// other; the store drops in-progress snapshots aimed at an already-frozen
// row, so a checkpoint drained after the completion commit cannot reopen a
// completed session.
type CheckpointWorker struct {
	store service.SessionStore
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewCheckpointWorker creates a new CheckpointWorker.
func NewCheckpointWorker(store service.SessionStore, rdb *redis.Client, log zerolog.Logger) *CheckpointWorker {
	return &CheckpointWorker{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "checkpoint_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *CheckpointWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *CheckpointWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.QueueKey.CheckpointQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	if err := w.persist(ctx, []byte(result[1])); err != nil {
		w.log.Error().Err(err).Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.QueueKey.CheckpointQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *CheckpointWorker) persist(ctx context.Context, payload []byte) error {
	var session model.ExamSession
	if err := json.Unmarshal(payload, &session); err != nil {
		// Malformed payloads are dropped, not retried.
		w.log.Error().Err(err).Msg("Unmarshal error, dropping checkpoint")
		return nil
	}
	return w.store.SaveExamSession(ctx, &session)
}

// drain processes all remaining items in the queue before shutdown.
func (w *CheckpointWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.QueueKey.CheckpointQueue).Result()
		if err != nil {
			break
		}

		if err := w.persist(ctx, []byte(result)); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.QueueKey.CheckpointQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
