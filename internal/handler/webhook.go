package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/giw-app/giw/internal/cache"
	"github.com/giw-app/giw/internal/errHandler"
	"github.com/giw-app/giw/internal/request"
	"github.com/giw-app/giw/internal/response"
	"github.com/giw-app/giw/internal/stream"
	"github.com/giw-app/giw/internal/validator"
)

const (
	transferStateComplete = "COMPLETE"
	transferStateFailed   = "FAILED"
	transferStateDenied   = "DENIED"

	// webhookDedupeTTL bounds how long a delivery id is remembered.
	// Provider retries arrive within minutes, not days.
	webhookDedupeTTL = 24 * time.Hour
)

// TransferEvent is the payload produced to the stream when the provider
// reports a transfer's final state.
type TransferEvent struct {
	ChallengeID string `json:"challenge_id"`
	State       string `json:"state"`
}

type WebhookHandler struct {
	Cache      *cache.Cache
	Kafka      *stream.KafkaStream
	ErrHandler *errHandler.ErrorRepository
}

func NewWebhookHandler(handler *WebhookHandler) *WebhookHandler {
	return &WebhookHandler{
		Cache:      handler.Cache,
		Kafka:      handler.Kafka,
		ErrHandler: handler.ErrHandler,
	}
}

// HandleTransferWebhook ingests the provider's transfer state notifications.
// Deliveries are deduplicated on notification id, then fanned out on the
// stream so settlement work happens off the request path. The provider
// retries on non-2xx, so failures here are safe.
func (h *WebhookHandler) HandleTransferWebhook(w http.ResponseWriter, r *http.Request) {
	var input struct {
		NotificationID string              `json:"notification_id"`
		ChallengeID    string              `json:"challenge_id"`
		State          string              `json:"state"`
		Validator      validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	states := []string{transferStateComplete, transferStateFailed, transferStateDenied}
	input.Validator.Check(validator.NotBlank(input.NotificationID), "Notification id is required")
	input.Validator.Check(validator.NotBlank(input.ChallengeID), "Challenge id is required")
	input.Validator.Check(validator.In(input.State, states...), "State is not recognized")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	fresh, err := h.Cache.SetIfNotExists("webhook:transfer:"+input.NotificationID, input.State, webhookDedupeTTL)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !fresh {
		// Duplicate delivery, already queued.
		message := "Notification already processed"
		err = response.JSONOkResponse(w, nil, message, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	event, err := json.Marshal(&TransferEvent{
		ChallengeID: input.ChallengeID,
		State:       input.State,
	})
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	topic := stream.TransferConfirmedTopic
	if input.State != transferStateComplete {
		topic = stream.TransferFailedTopic
	}

	err = h.Kafka.ProduceMessage(topic, string(event))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Notification accepted"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
