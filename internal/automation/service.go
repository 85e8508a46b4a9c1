// Package automation implements the payment automation scheduler: the
// background job that finds due automations, executes the underlying
// transfer or savings action, and reschedules or pauses each automation
// based on outcome.
package automation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/giw-app/giw/internal/circle"
	"github.com/giw-app/giw/internal/models"
	"github.com/giw-app/giw/internal/repository"
)

// transaction categories recorded per automation kind
const (
	CategoryRecurring = "Recurring Payment"
	CategoryScheduled = "Scheduled Transfer"
	CategorySavings   = "Savings"

	savingsMerchant = "Savings Goal"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrNoRecipient         = errors.New("no recipient address specified")
	ErrWalletNotLinked     = errors.New("wallet not linked to provider - cannot execute transfer")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ExecutionResult is the per-automation outcome of a batch run. Failures are
// data, not errors: one bad automation never blocks the rest of the batch.
type ExecutionResult struct {
	AutomationID  string `json:"automation_id"`
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Service processes due automations. It keeps no state between invocations
// except through the repositories, so it is safe to construct once and
// invoke from a timer.
type Service struct {
	automationRepo  repository.AutomationRepository
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	circle          circle.Client
	logger          *slog.Logger

	// now is stubbed in tests to pin the reference instant.
	now func() time.Time
}

func New(
	automationRepo repository.AutomationRepository,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	circleClient circle.Client,
	logger *slog.Logger,
) *Service {
	return &Service{
		automationRepo:  automationRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		circle:          circleClient,
		logger:          logger,
		now:             time.Now,
	}
}

// ProcessDueAutomations runs one batch: every active automation whose next
// run date has passed is executed, then rescheduled or paused according to
// outcome. Errors inside one automation's execution never propagate out;
// a failure of the active-automations query itself yields an empty result
// set so a caller's scheduling loop keeps running.
func (s *Service) ProcessDueAutomations(ctx context.Context) []ExecutionResult {
	automations, err := s.automationRepo.GetAllActive()
	if err != nil {
		s.logger.Error("failed to fetch active automations", "error", err)
		return []ExecutionResult{}
	}

	s.logger.Debug("checking for due automations", "active", len(automations))

	now := s.now()
	results := []ExecutionResult{}

	for _, automation := range automations {
		// An automation without a schedule cannot be due.
		if !automation.NextRunDate.Valid {
			s.logger.Debug("skipping automation with no next run date", "automation_id", automation.ID)
			continue
		}

		if automation.NextRunDate.Time.After(now) {
			continue
		}

		s.logger.Info("executing automation", "automation_id", automation.ID, "name", automation.Name, "type", automation.Type)

		result := s.executeAutomation(ctx, &automation)
		results = append(results, result)

		if result.Success {
			if automation.Type == repository.AutomationTypeScheduled {
				// One-time transfer, never runs again.
				err = s.automationRepo.UpdateStatus(automation.ID, repository.AutomationStatusCompleted)
				if err != nil {
					s.logger.Error("failed to complete automation", "automation_id", automation.ID, "error", err)
				}
			} else {
				nextRun := NextRunDate(automation.Frequency.String, now)
				err = s.automationRepo.UpdateNextRun(automation.ID, nextRun)
				if err != nil {
					s.logger.Error("failed to reschedule automation", "automation_id", automation.ID, "error", err)
				} else {
					s.logger.Info("automation rescheduled", "automation_id", automation.ID, "next_run", nextRun)
				}
			}
		} else {
			// A failed automation is paused until the user resumes it.
			// There is no retry.
			s.logger.Error("pausing automation after failed execution", "automation_id", automation.ID, "error", result.Error)
			err = s.automationRepo.UpdateStatus(automation.ID, repository.AutomationStatusPaused)
			if err != nil {
				s.logger.Error("failed to pause automation", "automation_id", automation.ID, "error", err)
			}
		}
	}

	if len(results) > 0 {
		s.logger.Info("processed automations", "count", len(results))
	}

	return results
}

// executeAutomation performs the money movement for one automation. Any
// error is converted into a failure result for the caller to act on.
func (s *Service) executeAutomation(ctx context.Context, automation *models.Automation) ExecutionResult {
	failure := func(err error) ExecutionResult {
		return ExecutionResult{
			AutomationID: automation.ID,
			Success:      false,
			Error:        err.Error(),
		}
	}

	wallet, found, err := s.walletRepo.GetOne(automation.WalletID)
	if err != nil {
		return failure(err)
	}
	if !found {
		return failure(ErrWalletNotFound)
	}

	if wallet.Balance.LessThan(automation.Amount) {
		return failure(fmt.Errorf("%w: required %s, available %s",
			ErrInsufficientBalance, automation.Amount.String(), wallet.Balance.String()))
	}

	// Savings contributions are internal bookkeeping: record a completed
	// transaction, no provider call, and the spendable balance is left
	// untouched.
	if automation.Type == repository.AutomationTypeSavings {
		trans, err := s.transactionRepo.Insert(&models.Transaction{
			WalletID: automation.WalletID,
			Type:     repository.TransactionTypeSent,
			Merchant: savingsMerchant,
			Category: CategorySavings,
			Amount:   automation.Amount,
			Status:   repository.TransactionStatusCompleted,
		}, nil)
		if err != nil {
			return failure(err)
		}

		return ExecutionResult{
			AutomationID:  automation.ID,
			Success:       true,
			TransactionID: trans.ID,
		}
	}

	// Recurring and scheduled payments go through the wallet provider.
	if !automation.Recipient.Valid || automation.Recipient.String == "" {
		return failure(ErrNoRecipient)
	}

	if !wallet.CircleWalletID.Valid {
		return failure(ErrWalletNotLinked)
	}

	// Provider session tokens expire, so a fresh one is requested for
	// every execution instead of caching.
	userToken, err := s.circle.CreateUserToken(ctx, automation.UserID)
	if err != nil {
		return failure(fmt.Errorf("provider token: %w", err))
	}

	challengeID, err := s.circle.CreateTransfer(
		ctx,
		userToken,
		wallet.CircleWalletID.String,
		automation.Recipient.String,
		models.UsdcTokenID,
		automation.Amount.StringFixed(6),
	)
	if err != nil {
		return failure(fmt.Errorf("provider transfer failed: %w", err))
	}

	s.logger.Info("provider transfer initiated, awaiting pin confirmation",
		"automation_id", automation.ID, "challenge_id", challengeID)

	category := CategoryScheduled
	if automation.Type == repository.AutomationTypeRecurring {
		category = CategoryRecurring
	}

	trans, err := s.transactionRepo.Insert(&models.Transaction{
		WalletID:    automation.WalletID,
		Type:        repository.TransactionTypeSent,
		Merchant:    automation.Recipient.String,
		Category:    category,
		Amount:      automation.Amount,
		Status:      repository.TransactionStatusPending,
		ChallengeID: nullString(challengeID),
	}, nil)
	if err != nil {
		return failure(err)
	}

	// Optimistically reflect the pending debit in the cached balance.
	// The transfer is not final until the PIN challenge resolves; the
	// confirmation pipeline credits the amount back if it fails.
	newBalance := wallet.Balance.Sub(automation.Amount)
	err = s.walletRepo.UpdateBalance(automation.WalletID, newBalance)
	if err != nil {
		return failure(err)
	}

	return ExecutionResult{
		AutomationID:  automation.ID,
		Success:       true,
		TransactionID: trans.ID,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NextRunDate computes the next eligible instant for a frequency, measured
// from the given reference instant. Monthly uses calendar-month arithmetic.
// An unrecognized or absent frequency returns the reference instant
// unchanged, which makes the automation immediately due again; callers rely
// on the one-time "scheduled" kind being completed before this matters.
func NextRunDate(frequency string, from time.Time) time.Time {
	switch frequency {
	case repository.FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case repository.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case repository.FrequencyBiweekly:
		return from.AddDate(0, 0, 14)
	case repository.FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	default:
		return from
	}
}
