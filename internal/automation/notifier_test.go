package automation

import (
	"log/slog"
	"os"
	"testing"

	"github.com/giw-app/giw/internal/mocks"
	"github.com/giw-app/giw/internal/models"

	"github.com/stretchr/testify/mock"
)

func TestNotifyPaused_EmailsOwnerOfFailedAutomation(t *testing.T) {
	automationRepo := new(mocks.MockAutomationRepo)
	userRepo := new(mocks.MockUserRepo)
	mailer := new(mocks.MockMailer)

	automationRepo.On("GetOne", "auto-1").Return(&models.Automation{
		ID:     "auto-1",
		UserID: "user-1",
		Name:   "Rent",
	}, true, nil)

	userRepo.On("GetOne", "user-1").Return(&models.User{
		ID:        "user-1",
		Email:     "ada@example.com",
		FirstName: "Ada",
	}, true, nil)

	mailer.On("Send", "ada@example.com", mock.MatchedBy(func(data any) bool {
		emailData, ok := data.(map[string]any)
		return ok && emailData["AutomationName"] == "Rent" && emailData["FirstName"] == "Ada"
	}), []string{"automation-paused.tmpl"}).Return(nil)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	notifier := NewNotifier(automationRepo, userRepo, mailer, &mocks.MockHelper{}, logger)

	notifier.NotifyPaused([]ExecutionResult{
		{AutomationID: "auto-1", Success: false, Error: "insufficient balance"},
		{AutomationID: "auto-2", Success: true},
	})

	mailer.AssertExpectations(t)
	automationRepo.AssertNotCalled(t, "GetOne", "auto-2")
}
