package handler

import (
	"net/http"
	"time"

	"github.com/giw-app/giw/internal/context"
	"github.com/giw-app/giw/internal/errHandler"
	"github.com/giw-app/giw/internal/models"
	"github.com/giw-app/giw/internal/repository"
	"github.com/giw-app/giw/internal/request"
	"github.com/giw-app/giw/internal/response"
	"github.com/giw-app/giw/internal/validator"
)

type PaymentCardResponseData struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Last4          string    `json:"last4"`
	Expiry         string    `json:"expiry"`
	CardholderName string    `json:"cardholder_name"`
	IsDefault      bool      `json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
}

type PaymentCardHandler struct {
	CardRepo   repository.PaymentCardRepository
	ErrHandler *errHandler.ErrorRepository
}

func NewPaymentCardHandler(handler *PaymentCardHandler) *PaymentCardHandler {
	return &PaymentCardHandler{
		CardRepo:   handler.CardRepo,
		ErrHandler: handler.ErrHandler,
	}
}

func newPaymentCardResponseData(card *models.PaymentCard) *PaymentCardResponseData {
	return &PaymentCardResponseData{
		ID:             card.ID,
		Type:           card.Type,
		Last4:          card.Last4,
		Expiry:         card.Expiry,
		CardholderName: card.CardholderName,
		IsDefault:      card.IsDefault,
		CreatedAt:      card.CreatedAt,
	}
}

func (h *PaymentCardHandler) HandleListCards(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	cards, _, err := h.CardRepo.GetAllByUserId(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]*PaymentCardResponseData, 0, len(cards))
	for i := range cards {
		data = append(data, newPaymentCardResponseData(&cards[i]))
	}

	message := "Cards fetched successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleAddCard stores card metadata only. Full card numbers never reach
// the database; the client submits the last four digits.
func (h *PaymentCardHandler) HandleAddCard(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	var input struct {
		Type           string              `json:"type"`
		Last4          string              `json:"last4"`
		Expiry         string              `json:"expiry"`
		CardholderName string              `json:"cardholder_name"`
		Validator      validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	cardTypes := []string{repository.CardTypeVisa, repository.CardTypeMastercard, repository.CardTypeAmex}
	input.Validator.Check(validator.In(input.Type, cardTypes...), "Card type is not supported")
	input.Validator.Check(len(input.Last4) == 4, "Last four digits are required")
	input.Validator.Check(validator.Matches(input.Expiry, validator.RgxCardExpiry), "Expiry must be in MM/YY format")
	input.Validator.Check(validator.NotBlank(input.CardholderName), "Cardholder name is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	card, err := h.CardRepo.Insert(&models.PaymentCard{
		UserID:         user.ID,
		Type:           input.Type,
		Last4:          input.Last4,
		Expiry:         input.Expiry,
		CardholderName: input.CardholderName,
	})
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Card added successfully"
	err = response.JSONCreatedResponse(w, newPaymentCardResponseData(card), message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *PaymentCardHandler) HandleSetDefaultCard(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	cardID := r.PathValue("id")

	card, found, err := h.CardRepo.GetOne(cardID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || card.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	err = h.CardRepo.SetDefault(user.ID, cardID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Default card updated successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *PaymentCardHandler) HandleDeleteCard(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	cardID := r.PathValue("id")

	card, found, err := h.CardRepo.GetOne(cardID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || card.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	err = h.CardRepo.Delete(cardID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Card removed successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
