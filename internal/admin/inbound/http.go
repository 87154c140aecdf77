package inbound

import (
	"context"

	"github.com/anonpersonals/personals/internal/admin/usecase"
	"github.com/anonpersonals/personals/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/admin/login", end.Login)
}

type HTTPEndpoint struct {
	uc uc
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges the admin password for a bearer token.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Login(r.Context(), usecase.LoginInput{Password: req.Password})
	if err != nil {
		return nil, err
	}

	return LoginResponse{AccessToken: out.AccessToken}, nil
}
