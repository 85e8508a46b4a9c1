package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/giw-app/giw/internal/errHandler"
	"github.com/giw-app/giw/internal/mocks"
	"github.com/giw-app/giw/internal/models"

	"github.com/cradoe/gopass"
	"github.com/stretchr/testify/require"
)

func newTestErrHandler(t *testing.T) *errHandler.ErrorRepository {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return errHandler.New("", &mocks.MockMailer{}, logger, &mocks.MockHelper{})
}

func TestHandleAuthLogin_Success(t *testing.T) {
	hashedPassword, err := gopass.Hash("S3cure!Pass1")
	require.NoError(t, err)

	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", "ada@example.com").Return(&models.User{
		ID:             "user-1",
		Email:          "ada@example.com",
		HashedPassword: hashedPassword,
	}, true, nil)

	h := NewAuthHandler(&AuthHandler{
		DB:         &mocks.MockDatabase{UserRepo: userRepo},
		ErrHandler: newTestErrHandler(t),
		Helper:     &mocks.MockHelper{},
		Mailer:     &mocks.MockMailer{},
		Config:     mocks.MockConfig,
	})

	body, _ := json.Marshal(map[string]string{
		"email":    "ada@example.com",
		"password": "S3cure!Pass1",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleAuthLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.NotEmpty(t, response.Data["auth_token"])
	require.NotEmpty(t, response.Data["token_expiry"])

	userRepo.AssertExpectations(t)
}

func TestHandleAuthLogin_WrongPassword(t *testing.T) {
	hashedPassword, err := gopass.Hash("S3cure!Pass1")
	require.NoError(t, err)

	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", "ada@example.com").Return(&models.User{
		ID:             "user-1",
		Email:          "ada@example.com",
		HashedPassword: hashedPassword,
	}, true, nil)

	h := NewAuthHandler(&AuthHandler{
		DB:         &mocks.MockDatabase{UserRepo: userRepo},
		ErrHandler: newTestErrHandler(t),
		Helper:     &mocks.MockHelper{},
		Mailer:     &mocks.MockMailer{},
		Config:     mocks.MockConfig,
	})

	body, _ := json.Marshal(map[string]string{
		"email":    "ada@example.com",
		"password": "not-the-password",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleAuthLogin(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleAuthLogin_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, false, nil)

	h := NewAuthHandler(&AuthHandler{
		DB:         &mocks.MockDatabase{UserRepo: userRepo},
		ErrHandler: newTestErrHandler(t),
		Helper:     &mocks.MockHelper{},
		Mailer:     &mocks.MockMailer{},
		Config:     mocks.MockConfig,
	})

	body, _ := json.Marshal(map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever123",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleAuthLogin(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
