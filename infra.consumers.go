package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// backupConsumer copies the primary collection into the backup storage
// each time a change event is received.
type backupConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	primary BookStorage
	backup  BookStorage
}

func NewBackupConsumer(logger *zap.Logger, q Queuer, primary, backup BookStorage) Consumer {
	return &backupConsumer{logger, q, primary, backup}
}

func (bc *backupConsumer) Consume(ctx context.Context, qids ...string) error {
	for {
		qid, ev, err := bc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			bc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			bc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		books, err := bc.primary.Load(ctx)
		if err != nil {
			bc.logger.Error("consumer: failed to read collection", zap.String("qid", qid), zap.Any("change", ev), zap.Error(err))
			continue
		}
		if err = bc.backup.Save(ctx, books); err != nil {
			bc.logger.Error("consumer: failed to save backup", zap.String("qid", qid), zap.Any("change", ev), zap.Error(err))
			continue
		}
		bc.logger.Debug("consumer: backup saved", zap.String("change.op", string(ev.Op)), zap.Int("books.count", len(books)))
	}
}
