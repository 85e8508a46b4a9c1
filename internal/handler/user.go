package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/giw-app/giw/internal/context"
	"github.com/giw-app/giw/internal/errHandler"
	"github.com/giw-app/giw/internal/file"
	"github.com/giw-app/giw/internal/models"
	"github.com/giw-app/giw/internal/repository"
	"github.com/giw-app/giw/internal/request"
	"github.com/giw-app/giw/internal/response"
	"github.com/giw-app/giw/internal/validator"

	"github.com/cradoe/gopass"
)

type UserResponseData struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	ProfileImageURL string    `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
}

type UserHandler struct {
	UserRepo     repository.UserRepository
	ErrHandler   *errHandler.ErrorRepository
	FileUploader *file.FileUploader
}

func NewUserHandler(handler *UserHandler) *UserHandler {
	return &UserHandler{
		UserRepo:     handler.UserRepo,
		ErrHandler:   handler.ErrHandler,
		FileUploader: handler.FileUploader,
	}
}

func newUserResponseData(user *models.User) *UserResponseData {
	return &UserResponseData{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL.String,
		CreatedAt:       user.CreatedAt,
	}
}

func (h *UserHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	data := newUserResponseData(user)

	message := "Profile fetched successfully"
	err := response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleChangeProfilePicture accepts a multipart upload, stages the file on
// disk and pushes it to the media store. Only the resulting URL is persisted.
func (h *UserHandler) HandleChangeProfilePicture(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	// 10 MB upload cap
	err := r.ParseMultipartForm(10 << 20)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, fmt.Errorf("unable to parse form: %w", err))
		return
	}

	uploadedFile, fileHeader, err := r.FormFile("image")
	if err != nil {
		h.ErrHandler.BadRequest(w, r, fmt.Errorf("image file is required: %w", err))
		return
	}
	defer uploadedFile.Close()

	tempFile, err := os.CreateTemp("", "upload-*-"+fileHeader.Filename)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if _, err = io.Copy(tempFile, uploadedFile); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	imageURL, err := h.FileUploader.UploadFile(tempFile.Name())
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	err = h.UserRepo.ChangeProfilePicture(user.ID, imageURL)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"profile_image_url": imageURL,
	}
	message := "Profile picture updated successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	var input struct {
		CurrentPassword string              `json:"current_password"`
		NewPassword     string              `json:"new_password"`
		Validator       validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.CurrentPassword), "Current password is required")

	_, errs := gopass.Validate(input.NewPassword)
	if errs != nil {
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	matches, err := gopass.ComparePasswordAndHash(input.CurrentPassword, user.HashedPassword)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !matches {
		h.ErrHandler.FailedValidation(w, r, []string{"Current password is incorrect"})
		return
	}

	hashedPassword, err := gopass.Hash(input.NewPassword)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	err = h.UserRepo.UpdatePassword(user.ID, hashedPassword)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Password changed successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
