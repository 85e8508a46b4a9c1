package handler

import (
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

// usdcTokenSymbol identifies the stablecoin entry inside the provider's
// token balance list.
const usdcTokenSymbol = "USDC"

type WalletResponseData struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Balance    string    `json:"balance"`
	Blockchain string    `json:"blockchain"`
	IsLinked   bool      `json:"is_linked"`
	CreatedAt  time.Time `json:"created_at"`
}

type WalletHandler struct {
	WalletRepo repository.WalletRepository
	UserRepo   repository.UserRepository
	Circle     circle.Client
	ErrHandler *errHandler.ErrorRepository
}

func NewWalletHandler(handler *WalletHandler) *WalletHandler {
	return &WalletHandler{
		WalletRepo: handler.WalletRepo,
		UserRepo:   handler.UserRepo,
		Circle:     handler.Circle,
		ErrHandler: handler.ErrHandler,
	}
}

func newWalletResponseData(wallet *models.Wallet) *WalletResponseData {
	return &WalletResponseData{
		ID:         wallet.ID,
		Name:       wallet.Name,
		Address:    wallet.Address,
		Balance:    wallet.Balance.String(),
		Blockchain: wallet.Blockchain,
		IsLinked:   wallet.IsLinked,
		CreatedAt:  wallet.CreatedAt,
	}
}

// HandleProvisionWallet registers the user with the wallet provider and
// kicks off PIN setup. The returned challenge id must be completed on the
// client before any wallet exists on-chain; linking happens afterwards via
// HandleLinkWallet.
func (h *WalletHandler) HandleProvisionWallet(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	if !user.CircleUserID.Valid {
		err := h.UserRepo.SetCircleUserID(user.ID, user.ID)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
	}

	userToken, err := h.Circle.CreateUserToken(r.Context(), user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	challengeID, err := h.Circle.CreateUserPinWithWallets(r.Context(), userToken, []string{models.DefaultBlockchain})
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"challenge_id": challengeID,
		"user_token":   userToken,
	}
	message := "Wallet setup initiated"
	err = response.JSONCreatedResponse(w, data, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleLinkWallet attaches the provider-side wallet created during PIN
// setup to our wallet record, storing its id and on-chain address.
func (h *WalletHandler) HandleLinkWallet(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	walletID := r.PathValue("id")

	wallet, found, err := h.WalletRepo.GetOne(walletID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	userToken, err := h.Circle.CreateUserToken(r.Context(), user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	providerWallets, err := h.Circle.ListWallets(r.Context(), userToken)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if len(providerWallets) == 0 {
		h.ErrHandler.FailedValidation(w, r, []string{"No wallet has been provisioned yet. Complete PIN setup first"})
		return
	}

	providerWallet := providerWallets[0]
	err = h.WalletRepo.Link(wallet.ID, providerWallet.ID, providerWallet.Address)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"address": providerWallet.Address,
	}
	message := "Wallet linked successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *WalletHandler) HandleListWallets(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	wallets, _, err := h.WalletRepo.GetAllByUserId(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]*WalletResponseData, 0, len(wallets))
	for i := range wallets {
		data = append(data, newWalletResponseData(&wallets[i]))
	}

	message := "Wallets fetched successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *WalletHandler) HandleWalletDetails(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	wallet, found, err := h.WalletRepo.GetOne(r.PathValue("id"))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	message := "Wallet fetched successfully"
	err = response.JSONOkResponse(w, newWalletResponseData(wallet), message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleSyncBalance refreshes the cached balance from the provider's
// on-chain token balances. The cache can drift because transfers decrement
// it optimistically before they settle.
func (h *WalletHandler) HandleSyncBalance(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	wallet, found, err := h.WalletRepo.GetOne(r.PathValue("id"))
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

	userToken, err := h.Circle.CreateUserToken(r.Context(), user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	balances, err := h.Circle.GetWalletTokenBalances(r.Context(), userToken, wallet.CircleWalletID.String)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	balance := decimal.Zero
	for _, tokenBalance := range balances {
		if tokenBalance.Token.Symbol == usdcTokenSymbol {
			parsed, err := decimal.NewFromString(tokenBalance.Amount)
			if err != nil {
				h.ErrHandler.ServerError(w, r, err)
				return
			}
			balance = parsed
			break
		}
	}

	err = h.WalletRepo.UpdateBalance(wallet.ID, balance)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"balance": balance.String(),
	}
	message := "Balance synced successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleSetBalance overwrites the cached balance directly. Useful for
// sandbox environments where no real deposits exist.
func (h *WalletHandler) HandleSetBalance(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	var input struct {
		Balance   string              `json:"balance"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Balance), "Balance is required")
	input.Validator.Check(validator.Matches(input.Balance, validator.RgxAmount), "Balance must be a valid amount")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	wallet, found, err := h.WalletRepo.GetOne(r.PathValue("id"))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	balance, err := decimal.NewFromString(input.Balance)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	err = h.WalletRepo.UpdateBalance(wallet.ID, balance)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Balance updated successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
