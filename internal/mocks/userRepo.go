package mocks

import (
	"github.com/giw-app/giw/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Insert(user *models.User, tx *sqlx.Tx) (string, error) {
	args := m.Called(user, tx)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepo) GetOne(id string) (*models.User, bool, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, bool, error) {
	args := m.Called(email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) UpdatePassword(id, password string) error {
	args := m.Called(id, password)
	return args.Error(0)
}

func (m *MockUserRepo) ChangeProfilePicture(id, image string) error {
	args := m.Called(id, image)
	return args.Error(0)
}

func (m *MockUserRepo) SetCircleUserID(id, circleUserID string) error {
	args := m.Called(id, circleUserID)
	return args.Error(0)
}
