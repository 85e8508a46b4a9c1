package automation

import (
	"log/slog"

	"github.com/giw-app/giw/internal/helper"
	"github.com/giw-app/giw/internal/repository"
	"github.com/giw-app/giw/internal/smtp"
)

// Notifier emails users whose automations were paused after a failed run.
// Notification failures are logged and swallowed; they must never affect
// the scheduling loop.
type Notifier struct {
	automationRepo repository.AutomationRepository
	userRepo       repository.UserRepository
	mailer         smtp.MailerInterface
	helper         helper.HelperInterface
	logger         *slog.Logger
}

func NewNotifier(
	automationRepo repository.AutomationRepository,
	userRepo repository.UserRepository,
	mailer smtp.MailerInterface,
	emailHelper helper.HelperInterface,
	logger *slog.Logger,
) *Notifier {
	return &Notifier{
		automationRepo: automationRepo,
		userRepo:       userRepo,
		mailer:         mailer,
		helper:         emailHelper,
		logger:         logger,
	}
}

func (n *Notifier) NotifyPaused(results []ExecutionResult) {
	for _, result := range results {
		if result.Success {
			continue
		}

		item, found, err := n.automationRepo.GetOne(result.AutomationID)
		if err != nil || !found {
			n.logger.Error("looking up paused automation", "automation_id", result.AutomationID, "error", err)
			continue
		}

		user, found, err := n.userRepo.GetOne(item.UserID)
		if err != nil || !found {
			n.logger.Error("looking up automation owner", "user_id", item.UserID, "error", err)
			continue
		}

		emailData := n.helper.NewEmailData()
		emailData["AutomationName"] = item.Name
		emailData["FirstName"] = user.FirstName
		emailData["Reason"] = result.Error

		err = n.mailer.Send(user.Email, emailData, "automation-paused.tmpl")
		if err != nil {
			n.logger.Error("sending paused automation email", "automation_id", item.ID, "error", err)
		}
	}
}
