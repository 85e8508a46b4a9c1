package mocks

import (
	"github.com/giw-app/giw/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockPaymentCardRepo struct {
	mock.Mock
}

func (m *MockPaymentCardRepo) Insert(card *models.PaymentCard) (*models.PaymentCard, error) {
	args := m.Called(card)
	created, _ := args.Get(0).(*models.PaymentCard)
	return created, args.Error(1)
}

func (m *MockPaymentCardRepo) GetOne(id string) (*models.PaymentCard, bool, error) {
	args := m.Called(id)
	card, _ := args.Get(0).(*models.PaymentCard)
	return card, args.Bool(1), args.Error(2)
}

func (m *MockPaymentCardRepo) GetAllByUserId(userID string) ([]models.PaymentCard, bool, error) {
	args := m.Called(userID)
	cards, _ := args.Get(0).([]models.PaymentCard)
	return cards, args.Bool(1), args.Error(2)
}

func (m *MockPaymentCardRepo) SetDefault(userID, cardID string) error {
	args := m.Called(userID, cardID)
	return args.Error(0)
}

func (m *MockPaymentCardRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
