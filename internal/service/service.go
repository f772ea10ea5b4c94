package service

import (
	"context"

	"github.com/suar-net/relay/internal/model"
)

type IRelayService interface {
	// Relay assembles a request descriptor from the DTO, paces it,
	// dispatches it and records the execution. userID may be nil for
	// anonymous submissions.
	Relay(ctx context.Context, userID *int, dto *model.DTORelayRequest) (*model.DTORelayResponse, error)
	// History returns the caller's relay records, newest first.
	History(ctx context.Context, userID int) ([]*model.RelayRecord, error)
}

type IAuthService interface {
	Register(ctx context.Context, req *model.DTOUserRegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.DTOLoginRequest) (*model.DTOLoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*model.Claims, error)
}
