package mocks

import (
	"time"

	"github.com/giw-app/giw/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockAutomationRepo struct {
	mock.Mock
}

func (m *MockAutomationRepo) Insert(automation *models.Automation) (*models.Automation, error) {
	args := m.Called(automation)
	created, _ := args.Get(0).(*models.Automation)
	return created, args.Error(1)
}

func (m *MockAutomationRepo) GetOne(id string) (*models.Automation, bool, error) {
	args := m.Called(id)
	item, _ := args.Get(0).(*models.Automation)
	return item, args.Bool(1), args.Error(2)
}

func (m *MockAutomationRepo) GetAllByUserId(userID string) ([]models.Automation, bool, error) {
	args := m.Called(userID)
	items, _ := args.Get(0).([]models.Automation)
	return items, args.Bool(1), args.Error(2)
}

func (m *MockAutomationRepo) GetAllActive() ([]models.Automation, error) {
	args := m.Called()
	items, _ := args.Get(0).([]models.Automation)
	return items, args.Error(1)
}

func (m *MockAutomationRepo) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockAutomationRepo) UpdateNextRun(id string, nextRun time.Time) error {
	args := m.Called(id, nextRun)
	return args.Error(0)
}

func (m *MockAutomationRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
