package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/suar-net/relay/internal/model"
	"github.com/suar-net/relay/internal/service"
)

type stubRelayService struct {
	resp    *model.DTORelayResponse
	err     error
	lastDTO *model.DTORelayRequest
}

func (s *stubRelayService) Relay(ctx context.Context, userID *int, dto *model.DTORelayRequest) (*model.DTORelayResponse, error) {
	s.lastDTO = dto
	return s.resp, s.err
}

func (s *stubRelayService) History(ctx context.Context, userID int) ([]*model.RelayRecord, error) {
	return nil, nil
}

func TestRelayHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "valid submission",
			body:       `{"method":"GET","hostname":"example.com","path":"/search","args":{"q":"x"}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json",
			body:       `{"method":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing method",
			body:       `{"hostname":"example.com"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad hostname",
			body:       `{"method":"GET","hostname":"not a host"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "builder rejection",
			body:       `{"method":"GET","hostname":"example.com","json_body":{"q":"x"}}`,
			serviceErr: fmt.Errorf("%w: JSON body not allowed on GET", service.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "target timeout",
			body:       `{"method":"GET","hostname":"example.com"}`,
			serviceErr: service.ErrRequestTimeout,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "unreachable target",
			body:       `{"method":"GET","hostname":"example.com"}`,
			serviceErr: fmt.Errorf("executing GET example.com: connection refused"),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRelayService{
				resp: &model.DTORelayResponse{StatusCode: http.StatusOK},
				err:  tt.serviceErr,
			}
			h := NewRelayHandler(stub, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/relay", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Relay(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestHistoryRequiresAuth(t *testing.T) {
	h := NewRelayHandler(&stubRelayService{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
