package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-econstore/internal/auth"
	"github.com/ariefcatur/go-econstore/internal/logging"
)

type Authenticator interface {
	Register(ctx context.Context, in auth.RegisterInput) (int64, error)
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
	LoginEmployee(ctx context.Context, email, password string) (auth.LoginResult, error)
}

type AuthHandler struct{ Svc Authenticator }

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type userSummary struct {
	ID       int64  `json:"id_usuario"`
	FullName string `json:"nome_completo"`
	Email    string `json:"email"`
	Role     string `json:"tipo_usuario"`
}

func summarize(u auth.User) userSummary {
	return userSummary{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}

// register is public, so every account it creates is a customer whatever
// tipo_usuario says.
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	h.registerAs(w, r, func(in *auth.RegisterInput) { in.Role = auth.RoleCustomer })
}

// registerStaff lets an authenticated shopkeeper create accounts of any role.
func (h *AuthHandler) registerStaff(w http.ResponseWriter, r *http.Request) {
	h.registerAs(w, r, func(*auth.RegisterInput) {})
}

func (h *AuthHandler) registerAs(w http.ResponseWriter, r *http.Request, adjust func(*auth.RegisterInput)) {
	var in auth.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		message(w, http.StatusBadRequest, auth.ErrMissingFields.Error())
		return
	}
	adjust(&in)
	id, err := h.Svc.Register(r.Context(), in)
	switch {
	case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrInvalidInput):
		message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrCPFTaken):
		message(w, http.StatusConflict, err.Error())
	case err != nil:
		logging.FromContext(r.Context()).Error("register failed", "error", err)
		message(w, http.StatusInternalServerError, "Erro interno do servidor ao tentar registrar usuário.")
	default:
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Usuário registrado com sucesso!", "userId": id})
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeJSON(r, &c); err != nil {
		message(w, http.StatusBadRequest, auth.ErrMissingCredentials.Error())
		return
	}
	res, err := h.Svc.Login(r.Context(), c.Email, c.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrWrongPassword):
		message(w, http.StatusUnauthorized, err.Error())
	case err != nil:
		logging.FromContext(r.Context()).Error("login failed", "error", err)
		message(w, http.StatusInternalServerError, "Erro interno do servidor ao tentar fazer login.")
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login bem-sucedido!",
			"token":   res.Token,
			"user":    summarize(res.User),
		})
	}
}

func (h *AuthHandler) loginEmployee(w http.ResponseWriter, r *http.Request) {
	var c credentials
	_ = decodeJSON(r, &c)
	res, err := h.Svc.LoginEmployee(r.Context(), c.Email, c.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"sucesso": false, "mensagem": err.Error()})
	case err != nil:
		logging.FromContext(r.Context()).Error("employee login failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"sucesso": false, "mensagem": "Erro no servidor"})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"sucesso": true, "token": res.Token, "usuario": summarize(res.User)})
	}
}
