package api

import (
	"mime"
	"net/http"
	"time"

	"loan-predict/internal/domain"
)

// accessTokenCookie is cleared on logout for clients that kept the token in a cookie.
const accessTokenCookie = "access_token"

type registerBody struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password"`
}

// loginBody carries no validate tags: blank credentials fail like any other
// wrong credentials.
type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type resetPasswordBody struct {
	NewPassword *string `json:"new_password"`
	Password    *string `json:"password"`
}

// newPassword prefers new_password and falls back to password.
func (b resetPasswordBody) newPassword() *string {
	if b.NewPassword != nil {
		return b.NewPassword
	}
	return b.Password
}

type activateBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register handles POST /auth/register.
func (h *APIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := h.auth.Register(r.Context(), domain.RegisterRequest{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountToAPI(*account))
}

// Login handles POST /auth/login. It accepts a JSON body or an
// application/x-www-form-urlencoded password form.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := decodeLogin(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tok, err := h.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		ExpiresAt:   tok.ExpiresAt.UTC(),
	})
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (loginBody, error) {
	var body loginBody
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		// OAuth2 clients send extras such as grant_type and scope.
		return body, decodeJSONLenient(w, r, &body)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return body, domain.ErrValidation("invalid form body")
	}
	body.Username = r.PostForm.Get("username")
	body.Password = r.PostForm.Get("password")
	return body, nil
}

// ResetPassword handles POST /auth/reset-password.
func (h *APIHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body resetPasswordBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.auth.ResetPassword(r.Context(), principal(r.Context()), body.newPassword()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "password updated"})
}

// Activate handles POST /auth/activate.
func (h *APIHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var body activateBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.auth.Activate(r.Context(), body.Email, body.Password); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "account activated"})
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only
// clears the cookie; a bearer token stays valid until it expires.
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, messageResponse{Message: "successfully logged out"})
}
