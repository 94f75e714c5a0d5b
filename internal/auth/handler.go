package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/garments-tracker/internal/transport"
	"github.com/frahmantamala/garments-tracker/internal/user"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*Session, error)
}

type Registrar interface {
	Register(ctx context.Context, dto user.RegisterDTO) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Registrar Registrar
	Cookies   CookiePolicy
}

func NewHandler(svc ServiceAPI, registrar Registrar, cookies CookiePolicy, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Registrar:   registrar,
		Cookies:     cookies,
	}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto user.RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if _, err := h.Registrar.Register(r.Context(), dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Login handles POST /auth/login and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	session, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	http.SetCookie(w, h.Cookies.SessionCookie(session.Token, session.ExpiresAt))
	h.WriteJSON(w, http.StatusOK, LoginResponse{User: session.User.ToProfile()})
}

// Logout handles POST /auth/logout. It is idempotent and needs no valid session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.Cookies.ClearSessionCookie())
	h.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
