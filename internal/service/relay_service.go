package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/suar-net/relay/internal/history"
	"github.com/suar-net/relay/internal/model"
	"github.com/suar-net/relay/internal/ratelimit"
	"github.com/suar-net/relay/internal/relay"
	"github.com/suar-net/relay/internal/repository"
	"github.com/suar-net/relay/internal/request"
	"github.com/suar-net/relay/internal/transport"
	"github.com/suar-net/relay/internal/ws"
)

type relayService struct {
	dispatcher *transport.Dispatcher
	pacer      *ratelimit.Pacer
	repo       repository.IRelayRepository
	hub        *ws.Hub
	logger     zerolog.Logger
}

func NewRelayService(
	dispatcher *transport.Dispatcher,
	pacer *ratelimit.Pacer,
	repo repository.IRelayRepository,
	hub *ws.Hub,
	logger zerolog.Logger,
) IRelayService {
	return &relayService{
		dispatcher: dispatcher,
		pacer:      pacer,
		repo:       repo,
		hub:        hub,
		logger:     logger,
	}
}

func (s *relayService) Relay(ctx context.Context, userID *int, dto *model.DTORelayRequest) (*model.DTORelayResponse, error) {
	job, err := s.buildJob(userID, dto)
	if err != nil {
		return nil, err
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for dispatch slot: %w", err)
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, job.Timeout())
	defer cancel()

	result, err := s.dispatcher.Dispatch(dispatchCtx, job.Descriptor)
	s.pacer.Observe(job.Descriptor)
	if err != nil {
		s.record(job, nil)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrRequestTimeout, err)
		}
		return nil, err
	}

	s.record(job, result)
	s.announce(job, result)

	executedAt, _ := job.ExecutedAt()
	return &model.DTORelayResponse{
		ID:         job.ID(),
		StatusCode: result.StatusCode,
		ExecutedAt: executedAt,
		Duration:   result.Duration,
		Size:       result.Size,
		Headers:    result.Headers,
		Body:       result.Body,
		Truncated:  result.Truncated,
	}, nil
}

func (s *relayService) History(ctx context.Context, userID int) ([]*model.RelayRecord, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// buildJob turns the validated DTO into a relay job. Every builder error is
// a misconfigured submission, so they all map to ErrInvalidInput.
func (s *relayService) buildJob(userID *int, dto *model.DTORelayRequest) (*relay.Job, error) {
	verb, err := request.ParseVerb(dto.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	builder, err := relay.NewJobBuilder(verb, dto.Hostname, dto.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if userID != nil {
		builder.SetOwner(*userID)
	}
	if dto.Timeout > 0 {
		if err := builder.SetTimeout(time.Duration(dto.Timeout) * time.Millisecond); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if len(dto.Args) > 0 {
		if err := builder.SetArguments(dto.Args); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if len(dto.JSONBody) > 0 {
		if !gjson.ValidBytes(dto.JSONBody) {
			return nil, fmt.Errorf("%w: json_body is not valid JSON", ErrInvalidInput)
		}
		if err := builder.SetJSONBody(gjson.ParseBytes(dto.JSONBody)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	return builder.Build(), nil
}

// record persists the job trace. Persistence failures are logged, not
// surfaced; the relayed response is already in hand.
func (s *relayService) record(job *relay.Job, result *transport.Result) {
	rec := history.NewRecord(job, result)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error().Err(err).Stringer("job", job.ID()).Msg("recording relay history")
	}
}

func (s *relayService) announce(job *relay.Job, result *transport.Result) {
	executedAt, _ := job.ExecutedAt()
	s.hub.Broadcast(ws.Event{
		JobID:      job.ID(),
		Verb:       job.Verb().String(),
		Hostname:   job.Hostname(),
		Path:       job.Path(),
		StatusCode: result.StatusCode,
		ExecutedAt: executedAt,
		Duration:   result.Duration,
	})
}
