package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	giwcontext "github.com/giw-app/giw/internal/context"
	"github.com/giw-app/giw/internal/mocks"
	"github.com/giw-app/giw/internal/models"
	"github.com/giw-app/giw/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAutomationRequest(t *testing.T, payload map[string]any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/automations", bytes.NewReader(body))
	return giwcontext.ContextSetAuthenticatedUser(req, &models.User{ID: "user-1", Email: "ada@example.com"})
}

func TestHandleCreateAutomation_Recurring(t *testing.T) {
	automationRepo := new(mocks.MockAutomationRepo)
	walletRepo := new(mocks.MockWalletRepo)

	walletRepo.On("GetOne", "wallet-1").Return(&models.Wallet{
		ID:     "wallet-1",
		UserID: "user-1",
	}, true, nil)

	automationRepo.On("Insert", mock.MatchedBy(func(item *models.Automation) bool {
		return item.UserID == "user-1" &&
			item.WalletID == "wallet-1" &&
			item.Type == repository.AutomationTypeRecurring &&
			item.Recipient.Valid &&
			item.Frequency.String == repository.FrequencyMonthly &&
			item.NextRunDate.Valid && item.NextRunDate.Time.After(time.Now()) &&
			item.Status == repository.AutomationStatusActive
	})).Return(&models.Automation{ID: "auto-1", Status: repository.AutomationStatusActive}, nil)

	h := NewAutomationHandler(&AutomationHandler{
		AutomationRepo: automationRepo,
		WalletRepo:     walletRepo,
		ErrHandler:     newTestErrHandler(t),
	})

	req := newAutomationRequest(t, map[string]any{
		"wallet_id": "wallet-1",
		"type":      "recurring",
		"name":      "Rent",
		"amount":    "500.00",
		"recipient": "0x1111111111111111111111111111111111111111",
		"frequency": "monthly",
	})
	rec := httptest.NewRecorder()

	h.HandleCreateAutomation(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	automationRepo.AssertExpectations(t)
}

func TestHandleCreateAutomation_RejectsUnknownType(t *testing.T) {
	h := NewAutomationHandler(&AutomationHandler{
		AutomationRepo: new(mocks.MockAutomationRepo),
		WalletRepo:     new(mocks.MockWalletRepo),
		ErrHandler:     newTestErrHandler(t),
	})

	req := newAutomationRequest(t, map[string]any{
		"wallet_id": "wallet-1",
		"type":      "lottery",
		"name":      "Nope",
		"amount":    "10",
	})
	rec := httptest.NewRecorder()

	h.HandleCreateAutomation(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleCreateAutomation_RecurringNeedsRecipient(t *testing.T) {
	h := NewAutomationHandler(&AutomationHandler{
		AutomationRepo: new(mocks.MockAutomationRepo),
		WalletRepo:     new(mocks.MockWalletRepo),
		ErrHandler:     newTestErrHandler(t),
	})

	req := newAutomationRequest(t, map[string]any{
		"wallet_id": "wallet-1",
		"type":      "recurring",
		"name":      "Rent",
		"amount":    "500.00",
		"frequency": "monthly",
	})
	rec := httptest.NewRecorder()

	h.HandleCreateAutomation(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleCreateAutomation_SavingsNeedsNoRecipient(t *testing.T) {
	automationRepo := new(mocks.MockAutomationRepo)
	walletRepo := new(mocks.MockWalletRepo)

	walletRepo.On("GetOne", "wallet-1").Return(&models.Wallet{
		ID:     "wallet-1",
		UserID: "user-1",
	}, true, nil)

	automationRepo.On("Insert", mock.MatchedBy(func(item *models.Automation) bool {
		return item.Type == repository.AutomationTypeSavings && !item.Recipient.Valid
	})).Return(&models.Automation{ID: "auto-2", Status: repository.AutomationStatusActive}, nil)

	h := NewAutomationHandler(&AutomationHandler{
		AutomationRepo: automationRepo,
		WalletRepo:     walletRepo,
		ErrHandler:     newTestErrHandler(t),
	})

	req := newAutomationRequest(t, map[string]any{
		"wallet_id": "wallet-1",
		"type":      "savings",
		"name":      "Holiday fund",
		"amount":    "25",
		"frequency": "weekly",
	})
	rec := httptest.NewRecorder()

	h.HandleCreateAutomation(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	automationRepo.AssertExpectations(t)
}

func TestHandleUpdateAutomationStatus_CompletedIsImmutable(t *testing.T) {
	automationRepo := new(mocks.MockAutomationRepo)
	automationRepo.On("GetOne", "auto-1").Return(&models.Automation{
		ID:     "auto-1",
		UserID: "user-1",
		Status: repository.AutomationStatusCompleted,
	}, true, nil)

	h := NewAutomationHandler(&AutomationHandler{
		AutomationRepo: automationRepo,
		WalletRepo:     new(mocks.MockWalletRepo),
		ErrHandler:     newTestErrHandler(t),
	})

	body, _ := json.Marshal(map[string]string{"status": "paused"})
	req := httptest.NewRequest(http.MethodPatch, "/automations/auto-1/status", bytes.NewReader(body))
	req.SetPathValue("id", "auto-1")
	req = giwcontext.ContextSetAuthenticatedUser(req, &models.User{ID: "user-1"})
	rec := httptest.NewRecorder()

	h.HandleUpdateAutomationStatus(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	automationRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestHandleDeleteAutomation_OtherUsersAutomationIsHidden(t *testing.T) {
	automationRepo := new(mocks.MockAutomationRepo)
	automationRepo.On("GetOne", "auto-9").Return(&models.Automation{
		ID:     "auto-9",
		UserID: "someone-else",
	}, true, nil)

	h := NewAutomationHandler(&AutomationHandler{
		AutomationRepo: automationRepo,
		WalletRepo:     new(mocks.MockWalletRepo),
		ErrHandler:     newTestErrHandler(t),
	})

	req := httptest.NewRequest(http.MethodDelete, "/automations/auto-9", nil)
	req.SetPathValue("id", "auto-9")
	req = giwcontext.ContextSetAuthenticatedUser(req, &models.User{ID: "user-1"})
	rec := httptest.NewRecorder()

	h.HandleDeleteAutomation(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	automationRepo.AssertNotCalled(t, "Delete", mock.Anything)
}
