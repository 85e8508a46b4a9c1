package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/giw-app/giw/internal/models"
)

// automation kinds
const (
	AutomationTypeRecurring = "recurring"
	AutomationTypeScheduled = "scheduled"
	AutomationTypeSavings   = "savings"
)

// automation status
const (
	AutomationStatusActive    = "active"
	AutomationStatusPaused    = "paused"
	AutomationStatusCompleted = "completed"
)

// supported frequencies
const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

type AutomationRepository interface {
	Insert(automation *models.Automation) (*models.Automation, error)
	GetOne(id string) (*models.Automation, bool, error)
	GetAllByUserId(userID string) ([]models.Automation, bool, error)
	GetAllActive() ([]models.Automation, error)
	UpdateStatus(id string, status string) error
	UpdateNextRun(id string, nextRun time.Time) error
	Delete(id string) error
}

type AutomationRepositoryImpl struct {
	db *sqlx.DB
}

func NewAutomationRepository(db *sqlx.DB) AutomationRepository {
	return &AutomationRepositoryImpl{db: db}
}

func (repo *AutomationRepositoryImpl) Insert(automation *models.Automation) (*models.Automation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created models.Automation

	query := `
		INSERT INTO automations (user_id, wallet_id, type, name, amount, recipient, frequency, next_run_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, wallet_id, type, name, amount, recipient, frequency, next_run_date, status, created_at`

	err := repo.db.GetContext(ctx, &created, query,
		automation.UserID,
		automation.WalletID,
		automation.Type,
		automation.Name,
		automation.Amount,
		automation.Recipient,
		automation.Frequency,
		automation.NextRunDate,
	)

	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (repo *AutomationRepositoryImpl) GetOne(id string) (*models.Automation, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var automation models.Automation

	query := `
        SELECT id, user_id, wallet_id, type, name, amount, recipient, frequency, next_run_date, status, created_at
        FROM automations WHERE id=$1`

	err := repo.db.GetContext(ctx, &automation, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &automation, true, nil
}

func (repo *AutomationRepositoryImpl) GetAllByUserId(userID string) ([]models.Automation, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var automations []models.Automation

	query := `
        SELECT id, user_id, wallet_id, type, name, amount, recipient, frequency, next_run_date, status, created_at
        FROM automations WHERE user_id=$1 ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &automations, query, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if len(automations) == 0 {
		return nil, false, nil
	}

	return automations, true, nil
}

// GetAllActive returns every automation the scheduler should consider. Due
// date filtering happens in the scheduler, not in the query, so an
// automation with no next run date is still visible (and skipped) there.
func (repo *AutomationRepositoryImpl) GetAllActive() ([]models.Automation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var automations []models.Automation

	query := `
        SELECT id, user_id, wallet_id, type, name, amount, recipient, frequency, next_run_date, status, created_at
        FROM automations WHERE status=$1`

	err := repo.db.SelectContext(ctx, &automations, query, AutomationStatusActive)

	if err != nil {
		return nil, err
	}

	return automations, nil
}

func (repo *AutomationRepositoryImpl) UpdateStatus(id string, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE automations SET status = $1, updated_at = NOW() WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, status, id)
	return err
}

func (repo *AutomationRepositoryImpl) UpdateNextRun(id string, nextRun time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE automations SET next_run_date = $1, updated_at = NOW() WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, nextRun, id)
	return err
}

func (repo *AutomationRepositoryImpl) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `DELETE FROM automations WHERE id = $1`

	_, err := repo.db.ExecContext(ctx, query, id)
	return err
}
