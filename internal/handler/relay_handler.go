package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/suar-net/relay/internal/model"
	"github.com/suar-net/relay/internal/request"
	"github.com/suar-net/relay/internal/service"
)

type RelayHandler struct {
	relayService service.IRelayService
	logger       zerolog.Logger
}

func NewRelayHandler(s service.IRelayService, l zerolog.Logger) *RelayHandler {
	return &RelayHandler{
		relayService: s,
		logger:       l,
	}
}

// Relay accepts a request submission, hands it to the service and returns
// the relayed response.
func (h *RelayHandler) Relay(w http.ResponseWriter, r *http.Request) {
	var dto model.DTORelayRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if err := validate.Struct(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, ValidationError(err))
		return
	}

	var userID *int
	if claims, ok := GetUserFromContext(r.Context()); ok {
		userID = &claims.ID
	}

	resp, err := h.relayService.Relay(r.Context(), userID, &dto)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrRequestTimeout):
			respondWithError(w, http.StatusGatewayTimeout, err.Error())
		case errors.Is(err, request.ErrAlreadyExecuted):
			// A descriptor reached the dispatcher twice; this is a server
			// defect, never a client one.
			h.logger.Error().Err(err).Msg("double dispatch detected")
			respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
		default:
			h.logger.Error().Err(err).Msg("relaying request")
			respondWithError(w, http.StatusBadGateway, "Failed to reach the target server")
		}
		return
	}

	respondWithJson(w, http.StatusOK, resp)
}

// History returns the authenticated user's relay records.
func (h *RelayHandler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetUserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	records, err := h.relayService.History(r.Context(), claims.ID)
	if err != nil {
		h.logger.Error().Err(err).Int("user", claims.ID).Msg("loading relay history")
		respondWithError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if records == nil {
		records = []*model.RelayRecord{}
	}

	respondWithJson(w, http.StatusOK, records)
}
