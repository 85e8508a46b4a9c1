package worker

import (
	"context"
	"log/slog"

	"github.com/giw-app/giw/internal/repository"
	"github.com/giw-app/giw/internal/stream"
)

type Worker struct {
	KafkaStream *stream.KafkaStream
	DB          repository.Database
	Logger      *slog.Logger
	Ctx         context.Context
}

const (
	// transferConfirmedGroupID is used for workers that finalize transfers
	// the provider settled on-chain
	transferConfirmedGroupID = "transfer-confirmed-group"

	// transferFailedGroupID is used for workers that unwind transfers the
	// provider rejected
	transferFailedGroupID = "transfer-failed-group"
)

func New(worker *Worker) *Worker {
	return &Worker{
		KafkaStream: worker.KafkaStream,
		DB:          worker.DB,
		Logger:      worker.Logger,
		Ctx:         worker.Ctx,
	}
}
