// Failed transfers never moved funds on-chain, but the cached wallet balance
// was decremented optimistically when the transfer was initiated. We mark
// the transaction failed and credit the amount back.
package worker

import (
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/giw-app/giw/internal/handler"
	"github.com/giw-app/giw/internal/repository"
	"github.com/giw-app/giw/internal/stream"
)

func (wk *Worker) FailedTransferWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: transferFailedGroupID,
		Topic:   stream.TransferFailedTopic,
	})

	if err != nil {
		wk.Logger.Error("creating failed transfer consumer", "error", err)
		return
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			wk.Logger.Info("failed transfer worker shutting down")
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

				wk.unwindTransfer(&transferEvent)
			case kafka.Error:
				wk.Logger.Error("kafka error", "error", e)
			}
		}
	}
}

func (wk *Worker) unwindTransfer(event *handler.TransferEvent) {
	transaction, found, err := wk.DB.Transaction().FindByChallengeId(event.ChallengeID)
	if err != nil {
		wk.Logger.Error("looking up transaction by challenge", "challenge_id", event.ChallengeID, "error", err)
		return
	}

	if !found {
		wk.Logger.Warn("no transaction for failed challenge", "challenge_id", event.ChallengeID)
		return
	}

	if transaction.Status != repository.TransactionStatusPending {
		return
	}

	err = wk.DB.Transaction().UpdateStatus(transaction.ID, repository.TransactionStatusFailed)
	if err != nil {
		wk.Logger.Error("marking transaction failed", "transaction_id", transaction.ID, "error", err)
		return
	}

	// The status update above keeps the worker idempotent: a replayed event
	// finds a non-pending transaction and stops before crediting twice.
	_, err = wk.DB.Wallet().Credit(transaction.WalletID, transaction.Amount)
	if err != nil {
		wk.Logger.Error("crediting balance back", "wallet_id", transaction.WalletID, "error", err)
		return
	}

	wk.Logger.Info("transfer unwound", "transaction_id", transaction.ID, "challenge_id", event.ChallengeID, "state", event.State)
}
