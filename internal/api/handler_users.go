package api

import (
	"net/http"

	"loan-predict/internal/domain"
)

type createUserBody struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type listUsersResponse struct {
	Users         []accountView `json:"users"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// Me handles GET /users/me.
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := principal(r.Context())
	if p == nil {
		h.writeError(w, r, domain.ErrUnauthenticated())
		return
	}
	writeJSON(w, http.StatusOK, accountToAPI(*p))
}

// CreateUser handles POST /admin/users.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body createUserBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := h.auth.CreateAccount(r.Context(), principal(r.Context()), domain.CreateAccountRequest{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountToAPI(*account))
}

// ListUsers handles GET /admin/users.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	accounts, total, err := h.auth.ListAccounts(r.Context(), principal(r.Context()), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, accountToAPI(a))
	}
	writeJSON(w, http.StatusOK, listUsersResponse{Users: views, NextPageToken: nextPageToken(page, total)})
}
