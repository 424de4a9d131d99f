package httpapi

import (
	"errors"
	"net/http"

	blogauth "github.com/alexmrv/blogauth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		return
	}

	result, err := s.engine.Login(r.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, blogauth.ErrEmailNotFound):
			writeErrorCode(w, http.StatusBadRequest, "errorEmailNotExist")
		case errors.Is(err, blogauth.ErrPasswordMismatch):
			writeErrorCode(w, http.StatusBadRequest, "errorPasswordIsNotMatch")
		case errors.Is(err, blogauth.ErrInvalidCode):
			writeErrorCode(w, http.StatusBadRequest, "errorInvalidCode")
		case errors.Is(err, blogauth.ErrCodeExpired):
			writeErrorCode(w, http.StatusBadRequest, "errorExpiredCode")
		default:
			writeErrorCode(w, http.StatusInternalServerError, "errorLogin")
		}
		return
	}

	switch {
	case result.VerificationRequired:
		writeJSON(w, http.StatusCreated, map[string]any{
			"verificationToken": result.VerificationToken,
			"success":           true,
			"message":           "successTokenCreated",
		})
	case result.TwoFactorRequired:
		writeJSON(w, http.StatusOK, map[string]any{
			"twoFactorToken": result.TwoFactorCode,
			"twoFactor":      true,
			"message":        "successTokenCreated",
		})
	default:
		writeJSON(w, http.StatusCreated, map[string]any{
			"token":   result.AccessToken,
			"success": true,
			"message": "successUserLogin",
			"user":    toUserPayload(result.User),
		})
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		return
	}

	result, err := s.engine.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, blogauth.ErrEmptyFields):
			writeErrorCode(w, http.StatusMethodNotAllowed, "errorEmptyField")
		case errors.Is(err, blogauth.ErrInvalidEmail):
			writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		case errors.Is(err, blogauth.ErrUserExists):
			writeErrorCode(w, http.StatusBadRequest, "errorUserIsExist")
		default:
			writeErrorCode(w, http.StatusInternalServerError, "errorRegister")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"verificationToken": result.VerificationToken,
		"success":           true,
		"message":           "successUserRegister",
		"user":              toUserPayload(result.User),
	})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorCode(w, http.StatusMethodNotAllowed, "errorInvalidData")
		return
	}

	if err := s.engine.VerifyEmail(r.Context(), req.Token); err != nil {
		switch {
		case errors.Is(err, blogauth.ErrTokenNotFound):
			writeErrorCode(w, http.StatusBadRequest, "errorTokenIsNotExist")
		case errors.Is(err, blogauth.ErrTokenExpired):
			writeErrorCode(w, http.StatusBadRequest, "errorExpiredToken")
		case errors.Is(err, blogauth.ErrUserNotFound):
			writeErrorCode(w, http.StatusBadRequest, "errorUserIsNotExist")
		default:
			writeErrorCode(w, http.StatusInternalServerError, "errorEmailVerification")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "successEmailVerified",
	})
}
