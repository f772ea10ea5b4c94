package model

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DTO for incoming relay submissions. Args and JSONBody are mutually
// exclusive; the builder rejects a submission carrying both.
type DTORelayRequest struct {
	Method   string            `json:"method" validate:"required"`
	Hostname string            `json:"hostname" validate:"required,hostname_rfc1123"`
	Path     string            `json:"path"`
	Args     map[string]string `json:"args,omitempty"`
	JSONBody json.RawMessage   `json:"json_body,omitempty"`
	Timeout  int               `json:"timeout" validate:"gte=0,lte=90000"` // ms, 0 means default
}

// DTO for the relayed response handed back to the submitting client.
type DTORelayResponse struct {
	ID         uuid.UUID           `json:"id"`
	StatusCode int                 `json:"status_code"`
	ExecutedAt time.Time           `json:"executed_at"`
	Duration   time.Duration       `json:"duration"`
	Size       int64               `json:"size"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body,omitempty"`
	Truncated  bool                `json:"truncated,omitempty"`
}

type DTOUserRegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type DTOLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type DTOLoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Claims struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
