package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/giw-app/giw/internal/circle"
	"github.com/giw-app/giw/internal/context"
	"github.com/giw-app/giw/internal/errHandler"
	"github.com/giw-app/giw/internal/models"
	"github.com/giw-app/giw/internal/repository"
	"github.com/giw-app/giw/internal/request"
	"github.com/giw-app/giw/internal/response"
	"github.com/giw-app/giw/internal/validator"

	"github.com/shopspring/decimal"
)

type TransactionResponseData struct {
	ID        string    `json:"id"`
	WalletID  string    `json:"wallet_id"`
	Type      string    `json:"type"`
	Merchant  string    `json:"merchant"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type TransactionHandler struct {
	TransactionRepo repository.TransactionRepository
	WalletRepo      repository.WalletRepository
	Circle          circle.Client
	ErrHandler      *errHandler.ErrorRepository
}

func NewTransactionHandler(handler *TransactionHandler) *TransactionHandler {
	return &TransactionHandler{
		TransactionRepo: handler.TransactionRepo,
		WalletRepo:      handler.WalletRepo,
		Circle:          handler.Circle,
		ErrHandler:      handler.ErrHandler,
	}
}

func newTransactionResponseData(transaction *models.Transaction) *TransactionResponseData {
	return &TransactionResponseData{
		ID:        transaction.ID,
		WalletID:  transaction.WalletID,
		Type:      transaction.Type,
		Merchant:  transaction.Merchant,
		Category:  transaction.Category,
		Amount:    transaction.Amount.String(),
		Status:    transaction.Status,
		CreatedAt: transaction.CreatedAt,
	}
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	queryValues := retrieveUrlQueryValues(r)

	wallet, found, err := h.WalletRepo.GetOne(r.PathValue("id"))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	transactions, _, err := h.TransactionRepo.GetAllByWalletId(wallet.ID, queryValues.Limit, queryValues.Offset)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]*TransactionResponseData, 0, len(transactions))
	for i := range transactions {
		data = append(data, newTransactionResponseData(&transactions[i]))
	}

	message := "Transactions fetched successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *TransactionHandler) HandleTransactionDetails(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	transaction, found, err := h.TransactionRepo.GetOne(r.PathValue("id"))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	wallet, found, err := h.WalletRepo.GetOne(transaction.WalletID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	message := "Transaction fetched successfully"
	err = response.JSONOkResponse(w, newTransactionResponseData(transaction), message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleTransfer initiates an on-chain USDC transfer. The transaction is
// recorded as pending against the provider's challenge id and the cached
// balance is decremented right away; settlement is reported later through
// the transfer webhook.
func (h *TransactionHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	var input struct {
		WalletID  string              `json:"wallet_id"`
		Recipient string              `json:"recipient"`
		Amount    string              `json:"amount"`
		Merchant  string              `json:"merchant"`
		Category  string              `json:"category"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.WalletID), "Wallet is required")
	input.Validator.Check(validator.NotBlank(input.Recipient), "Recipient is required")
	input.Validator.Check(validator.Matches(input.Recipient, validator.RgxEvmAddress), "Recipient must be a valid wallet address")
	input.Validator.Check(validator.NotBlank(input.Amount), "Amount is required")
	input.Validator.Check(validator.Matches(input.Amount, validator.RgxAmount), "Amount must be a valid amount")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	wallet, found, err := h.WalletRepo.GetOne(input.WalletID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	if !wallet.IsLinked || !wallet.CircleWalletID.Valid {
		h.ErrHandler.FailedValidation(w, r, []string{"Wallet has not been linked to the provider"})
		return
	}

	if wallet.Balance.LessThan(amount) {
		h.ErrHandler.FailedValidation(w, r, []string{"Insufficient balance"})
		return
	}

	userToken, err := h.Circle.CreateUserToken(r.Context(), user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	challengeID, err := h.Circle.CreateTransfer(
		r.Context(),
		userToken,
		wallet.CircleWalletID.String,
		input.Recipient,
		models.UsdcTokenID,
		amount.String(),
	)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	merchant := input.Merchant
	if merchant == "" {
		merchant = input.Recipient
	}
	category := input.Category
	if category == "" {
		category = "Transfer"
	}

	transaction, err := h.TransactionRepo.Insert(&models.Transaction{
		WalletID:    wallet.ID,
		Type:        repository.TransactionTypeSent,
		Merchant:    merchant,
		Category:    category,
		Amount:      amount,
		Status:      repository.TransactionStatusPending,
		ChallengeID: sql.NullString{String: challengeID, Valid: true},
	}, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	err = h.WalletRepo.UpdateBalance(wallet.ID, wallet.Balance.Sub(amount))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"transaction_id": transaction.ID,
		"challenge_id":   challengeID,
	}
	message := "Transfer initiated successfully"
	err = response.JSONCreatedResponse(w, data, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleUpdateTransactionStatus lets a client resolve a transaction
// directly, bypassing the webhook pipeline. Intended for sandbox
// environments where the provider sends no notifications.
func (h *TransactionHandler) HandleUpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	var input struct {
		Status    string              `json:"status"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	statuses := []string{repository.TransactionStatusCompleted, repository.TransactionStatusFailed}
	input.Validator.Check(validator.In(input.Status, statuses...), "Status must be completed or failed")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	transaction, found, err := h.TransactionRepo.GetOne(r.PathValue("id"))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	wallet, found, err := h.WalletRepo.GetOne(transaction.WalletID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	if transaction.Status != repository.TransactionStatusPending {
		h.ErrHandler.FailedValidation(w, r, []string{"Only pending transactions can be resolved"})
		return
	}

	err = h.TransactionRepo.UpdateStatus(transaction.ID, input.Status)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Transaction updated successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
