// Confirmed transfers are the ones the provider settled on-chain after the
// user completed the PIN challenge. A pending record was created in the
// transactions table when the transfer was initiated; we need to mark that
// record as completed.
package worker

import (
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/giw-app/giw/internal/handler"
	"github.com/giw-app/giw/internal/repository"
	"github.com/giw-app/giw/internal/stream"
)

func (wk *Worker) ConfirmedTransferWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: transferConfirmedGroupID,
		Topic:   stream.TransferConfirmedTopic,
	})

	if err != nil {
		wk.Logger.Error("creating confirmed transfer consumer", "error", err)
		return
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			wk.Logger.Info("confirmed transfer worker shutting down")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				var transferEvent handler.TransferEvent
				if err := json.Unmarshal(e.Value, &transferEvent); err != nil {
					wk.Logger.Error("decoding transfer event", "error", err)
					continue
				}

				wk.completeTransfer(&transferEvent)
			case kafka.Error:
				wk.Logger.Error("kafka error", "error", e)
			}
		}
	}
}

func (wk *Worker) completeTransfer(event *handler.TransferEvent) {
	transaction, found, err := wk.DB.Transaction().FindByChallengeId(event.ChallengeID)
	if err != nil {
		wk.Logger.Error("looking up transaction by challenge", "challenge_id", event.ChallengeID, "error", err)
		return
	}

	if !found {
		// Settlement can outrun the insert of the pending record. The
		// provider retries the webhook, so dropping here is acceptable.
		wk.Logger.Warn("no transaction for settled challenge", "challenge_id", event.ChallengeID)
		return
	}

	if transaction.Status != repository.TransactionStatusPending {
		return
	}

	err = wk.DB.Transaction().UpdateStatus(transaction.ID, repository.TransactionStatusCompleted)
	if err != nil {
		wk.Logger.Error("marking transaction completed", "transaction_id", transaction.ID, "error", err)
		return
	}

	wk.Logger.Info("transfer settled", "transaction_id", transaction.ID, "challenge_id", event.ChallengeID)
}
