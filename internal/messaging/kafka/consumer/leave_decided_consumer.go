package consumer

import (
	"context"
	"encoding/json"

	"go-leave/internal/balance"
	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveDecided drops the cached balance stats for the requester
// whenever a decision lands, so the next stats read reflects the debit.
// Invalidation is idempotent, so redelivered messages are harmless.
func ConsumeLeaveDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	balanceService balance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decided")
	log.Info("leave decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decided consumer stopped")
				return
			}
			log.Error("fetch leave decided message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := balanceService.InvalidateStats(ctx, event.RequesterID); err != nil {
			log.Error("invalidate stats from leave decided event failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("requester_id", event.RequesterID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decided message failed", zap.Error(err))
			continue
		}

		log.Info("balance stats invalidated from leave decided event",
			zap.String("leave_id", event.LeaveID),
			zap.String("requester_id", event.RequesterID),
			zap.String("outcome", event.Outcome),
		)
	}
}
