package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	account, err := s.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"id": account.ID, "name": account.Name}, "account created")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, account, err := s.accounts.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, loginResponse{Token: token, Name: account.Name, Email: account.Email}, "")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.accounts.Logout(tokenIDFromContext(r.Context()))
	writeSuccess(w, http.StatusOK, nil, "logged out")
}
