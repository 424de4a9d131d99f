package httpapi

import (
	"errors"
	"net/http"

	blogauth "github.com/alexmrv/blogauth"
	"github.com/alexmrv/blogauth/middleware"
)

type resetPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type newPasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

type newEmailRequest struct {
	Email    string `json:"email"`
	NewEmail string `json:"newEmail"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		return
	}

	token, err := s.engine.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, blogauth.ErrEmptyFields):
			writeErrorCode(w, http.StatusMethodNotAllowed, "errorEmptyField")
		case errors.Is(err, blogauth.ErrInvalidEmail):
			writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		case errors.Is(err, blogauth.ErrUserNotFound):
			writeErrorCode(w, http.StatusNotFound, "errorUserIsNotExist")
		default:
			writeErrorCode(w, http.StatusInternalServerError, "errorResetPassword")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"resetPasswordToken": token,
		"success":            "successResetPasswordTokenIsCreated",
	})
}

func (s *Server) handleResetPasswordConfirm(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordConfirmRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		return
	}

	if err := s.engine.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, blogauth.ErrEmptyFields):
			writeErrorCode(w, http.StatusMethodNotAllowed, "errorEmptyField")
		case errors.Is(err, blogauth.ErrTokenNotFound):
			writeErrorCode(w, http.StatusBadRequest, "errorTokenIsNotExist")
		case errors.Is(err, blogauth.ErrUserNotFound):
			writeErrorCode(w, http.StatusNotFound, "errorUserIsNotExist")
		default:
			writeErrorCode(w, http.StatusInternalServerError, "errorResetPassword")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": "successNewPasswordUpdated",
	})
}

func (s *Server) handleNewPassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, "errorAuth")
		return
	}

	var req newPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		return
	}

	if err := s.engine.ChangePassword(r.Context(), user.ID, req.Password, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, blogauth.ErrEmptyFields):
			writeErrorCode(w, http.StatusMethodNotAllowed, "errorEmptyField")
		case errors.Is(err, blogauth.ErrUserNotFound):
			writeErrorCode(w, http.StatusNotFound, "errorUserIsNotExist")
		case errors.Is(err, blogauth.ErrSamePassword):
			writeErrorCode(w, http.StatusBadRequest, "errorPasswordMatch")
		case errors.Is(err, blogauth.ErrPasswordMismatch):
			writeErrorCode(w, http.StatusBadRequest, "errorPasswordIsNotMatch")
		default:
			writeErrorCode(w, http.StatusInternalServerError, "errorNewPassword")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": "successNewPassword",
	})
}

func (s *Server) handleNewEmail(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, "errorAuth")
		return
	}

	var req newEmailRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		return
	}

	if err := s.engine.ChangeEmail(r.Context(), user.ID, req.Email, req.NewEmail); err != nil {
		switch {
		case errors.Is(err, blogauth.ErrEmptyFields):
			writeErrorCode(w, http.StatusMethodNotAllowed, "errorEmptyField")
		case errors.Is(err, blogauth.ErrInvalidEmail):
			writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		case errors.Is(err, blogauth.ErrEmailMismatch):
			writeErrorCode(w, http.StatusBadRequest, "errorEmailIsNotMatch")
		case errors.Is(err, blogauth.ErrEmailAlreadyUsed):
			writeErrorCode(w, http.StatusBadRequest, "errorEmailIsAlredyUsed")
		default:
			writeErrorCode(w, http.StatusInternalServerError, "errorNewEmail")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": "successNewEmail",
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, "errorAuth")
		return
	}

	profile, err := s.engine.Profile(r.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, blogauth.ErrUserNotFound):
			writeErrorCode(w, http.StatusNotFound, "errorUserIsNotExist")
		default:
			writeErrorCode(w, http.StatusInternalServerError, "errorUser")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": "successUserProfile",
		"user":    toUserPayload(profile),
	})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.engine.Users(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, blogauth.ErrNoUsers):
			writeErrorCode(w, http.StatusNotFound, "errorNoUsersFound")
		default:
			writeErrorCode(w, http.StatusInternalServerError, "errorUsers")
		}
		return
	}

	payload := make([]userPayload, len(users))
	for i := range users {
		payload[i] = toUserPayload(&users[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": "successUsers",
		"users":   payload,
	})
}
