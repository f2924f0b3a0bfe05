package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

type updateNameRequest struct {
	Name string `json:"name"`
}

type updateEmailRequest struct {
	CurrentEmail string `json:"currentEmail"`
	NewEmail     string `json:"newEmail"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	account, err := s.accounts.Get(r.Context(), owner.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"id":    account.ID,
		"name":  account.Name,
		"email": account.Email,
	}, "")
}

func (s *Server) handleUpdateName(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	var req updateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.accounts.UpdateName(r.Context(), owner.ID, req.Name); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "name updated")
}

func (s *Server) handleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	var req updateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.accounts.Get(r.Context(), owner.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if account.Email != strings.TrimSpace(req.CurrentEmail) {
		writeError(w, http.StatusBadRequest, "current email does not match")
		return
	}

	newEmail := strings.TrimSpace(req.NewEmail)
	if newEmail == "" {
		writeError(w, http.StatusBadRequest, "new email is required")
		return
	}

	if err := s.accounts.UpdateEmail(r.Context(), owner.ID, newEmail); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "email updated")
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NewPassword == "" || req.NewPassword != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	summary, err := s.accounts.UpdatePassword(r.Context(), owner.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"rotatedFiles": summary.Rotated,
		"failedFiles":  len(summary.Failures),
	}, "password updated")
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	var req deleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.accounts.Delete(r.Context(), owner.ID, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "account deleted")
}
