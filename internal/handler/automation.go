package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/giw-app/giw/internal/automation"
	"github.com/giw-app/giw/internal/context"
	"github.com/giw-app/giw/internal/errHandler"
	"github.com/giw-app/giw/internal/models"
	"github.com/giw-app/giw/internal/repository"
	"github.com/giw-app/giw/internal/request"
	"github.com/giw-app/giw/internal/response"
	"github.com/giw-app/giw/internal/validator"

	"github.com/shopspring/decimal"
)

type AutomationResponseData struct {
	ID          string     `json:"id"`
	WalletID    string     `json:"wallet_id"`
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Amount      string     `json:"amount"`
	Recipient   string     `json:"recipient,omitempty"`
	Frequency   string     `json:"frequency,omitempty"`
	NextRunDate *time.Time `json:"next_run_date,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

type AutomationHandler struct {
	AutomationRepo repository.AutomationRepository
	WalletRepo     repository.WalletRepository
	ErrHandler     *errHandler.ErrorRepository
}

func NewAutomationHandler(handler *AutomationHandler) *AutomationHandler {
	return &AutomationHandler{
		AutomationRepo: handler.AutomationRepo,
		WalletRepo:     handler.WalletRepo,
		ErrHandler:     handler.ErrHandler,
	}
}

func newAutomationResponseData(item *models.Automation) *AutomationResponseData {
	data := &AutomationResponseData{
		ID:        item.ID,
		WalletID:  item.WalletID,
		Type:      item.Type,
		Name:      item.Name,
		Amount:    item.Amount.String(),
		Recipient: item.Recipient.String,
		Frequency: item.Frequency.String,
		Status:    item.Status,
		CreatedAt: item.CreatedAt,
	}

	if item.NextRunDate.Valid {
		nextRun := item.NextRunDate.Time
		data.NextRunDate = &nextRun
	}

	return data
}

func (h *AutomationHandler) HandleListAutomations(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	automations, _, err := h.AutomationRepo.GetAllByUserId(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]*AutomationResponseData, 0, len(automations))
	for i := range automations {
		data = append(data, newAutomationResponseData(&automations[i]))
	}

	message := "Automations fetched successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleCreateAutomation registers a standing instruction. Recurring and
// scheduled transfers need a recipient; savings contributions do not.
// One-time scheduled transfers take an explicit run date, everything else
// derives its first run from the frequency.
func (h *AutomationHandler) HandleCreateAutomation(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	var input struct {
		WalletID  string              `json:"wallet_id"`
		Type      string              `json:"type"`
		Name      string              `json:"name"`
		Amount    string              `json:"amount"`
		Recipient string              `json:"recipient"`
		Frequency string              `json:"frequency"`
		RunDate   string              `json:"run_date"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	automationTypes := []string{
		repository.AutomationTypeRecurring,
		repository.AutomationTypeScheduled,
		repository.AutomationTypeSavings,
	}
	frequencies := []string{
		repository.FrequencyDaily,
		repository.FrequencyWeekly,
		repository.FrequencyBiweekly,
		repository.FrequencyMonthly,
	}

	input.Validator.Check(validator.NotBlank(input.WalletID), "Wallet is required")
	input.Validator.Check(validator.In(input.Type, automationTypes...), "Automation type is not supported")
	input.Validator.Check(validator.NotBlank(input.Name), "Name is required")
	input.Validator.Check(validator.NotBlank(input.Amount), "Amount is required")
	input.Validator.Check(validator.Matches(input.Amount, validator.RgxAmount), "Amount must be a valid amount")

	switch input.Type {
	case repository.AutomationTypeRecurring:
		input.Validator.Check(validator.NotBlank(input.Recipient), "Recipient is required for recurring transfers")
		input.Validator.Check(validator.Matches(input.Recipient, validator.RgxEvmAddress), "Recipient must be a valid wallet address")
		input.Validator.Check(validator.In(input.Frequency, frequencies...), "Frequency is not supported")
	case repository.AutomationTypeScheduled:
		input.Validator.Check(validator.NotBlank(input.Recipient), "Recipient is required for scheduled transfers")
		input.Validator.Check(validator.Matches(input.Recipient, validator.RgxEvmAddress), "Recipient must be a valid wallet address")
		input.Validator.Check(validator.NotBlank(input.RunDate), "Run date is required for scheduled transfers")
	case repository.AutomationTypeSavings:
		input.Validator.Check(validator.In(input.Frequency, frequencies...), "Frequency is not supported")
	}

	var runDate time.Time
	if input.RunDate != "" {
		runDate, err = time.Parse(time.RFC3339, input.RunDate)
		input.Validator.Check(err == nil, "Run date must be a valid RFC 3339 timestamp")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	if !amount.IsPositive() {
		h.ErrHandler.FailedValidation(w, r, []string{"Amount must be greater than zero"})
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

	var nextRun time.Time
	if input.Type == repository.AutomationTypeScheduled {
		nextRun = runDate
	} else if !runDate.IsZero() {
		nextRun = runDate
	} else {
		nextRun = automation.NextRunDate(input.Frequency, time.Now())
	}

	created, err := h.AutomationRepo.Insert(&models.Automation{
		UserID:      user.ID,
		WalletID:    wallet.ID,
		Type:        input.Type,
		Name:        input.Name,
		Amount:      amount,
		Recipient:   sql.NullString{String: input.Recipient, Valid: input.Recipient != ""},
		Frequency:   sql.NullString{String: input.Frequency, Valid: input.Frequency != ""},
		NextRunDate: sql.NullTime{Time: nextRun, Valid: !nextRun.IsZero()},
		Status:      repository.AutomationStatusActive,
	})
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Automation created successfully"
	err = response.JSONCreatedResponse(w, newAutomationResponseData(created), message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleUpdateAutomationStatus pauses or resumes an automation. Resuming an
// automation whose next run went stale while paused reschedules it from now.
func (h *AutomationHandler) HandleUpdateAutomationStatus(w http.ResponseWriter, r *http.Request) {
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

	statuses := []string{repository.AutomationStatusActive, repository.AutomationStatusPaused}
	input.Validator.Check(validator.In(input.Status, statuses...), "Status must be active or paused")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	item, found, err := h.AutomationRepo.GetOne(r.PathValue("id"))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || item.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	if item.Status == repository.AutomationStatusCompleted {
		h.ErrHandler.FailedValidation(w, r, []string{"Completed automations cannot be changed"})
		return
	}

	err = h.AutomationRepo.UpdateStatus(item.ID, input.Status)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if input.Status == repository.AutomationStatusActive &&
		item.Frequency.Valid &&
		item.NextRunDate.Valid && item.NextRunDate.Time.Before(time.Now()) {
		err = h.AutomationRepo.UpdateNextRun(item.ID, automation.NextRunDate(item.Frequency.String, time.Now()))
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
	}

	message := "Automation updated successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *AutomationHandler) HandleDeleteAutomation(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	item, found, err := h.AutomationRepo.GetOne(r.PathValue("id"))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || item.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	err = h.AutomationRepo.Delete(item.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Automation deleted successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
