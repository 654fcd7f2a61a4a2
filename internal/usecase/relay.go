package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatbot-relay/internal/domain"
	"chatbot-relay/internal/integrations/clova"
)

// UpstreamClient sends one envelope to the chatbot provider.
type UpstreamClient interface {
	Send(ctx context.Context, env domain.Envelope) (domain.ChatbotResponse, error)
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// RelayService runs the relay pipeline for a single message: validate,
// build the envelope, exchange it with the upstream, extract the reply.
// It holds no per-request state.
type RelayService struct {
	upstream UpstreamClient
}

type ChatInput struct {
	Message string
}

type ChatOutput struct {
	Reply string
}

func NewRelayService(upstream UpstreamClient) (*RelayService, error) {
	if upstream == nil {
		return nil, errors.New("usecase: upstream client must not be nil")
	}
	return &RelayService{upstream: upstream}, nil
}

// Chat relays one user message and returns the chatbot's reply text.
func (s *RelayService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ChatOutput{}, newError(ErrorInvalidInput, "empty_message", nil)
	}

	// A fresh userId per request means the upstream sees every message as a
	// new conversation. That matches the service this relay replaces, even
	// though it forfeits conversational continuity.
	env := domain.NewEnvelope(message, newUserID(), nowMillis())

	resp, err := s.upstream.Send(ctx, env)
	if err != nil {
		return ChatOutput{}, classifyUpstreamError(err)
	}
	return ChatOutput{Reply: resp.ReplyText()}, nil
}

func classifyUpstreamError(err error) *Error {
	if status, ok := upstreamStatusCode(err); ok {
		return &Error{Code: ErrorUpstream, Reason: reasonForStatus(status), Status: status, Err: err}
	}
	switch {
	case errors.Is(err, clova.ErrNotConfigured):
		return newError(ErrorConfiguration, "missing_credentials", err)
	case errors.Is(err, clova.ErrUnreachable):
		return newError(ErrorUnreachable, "network_failure", err)
	default:
		return newError(ErrorInternal, "upstream_exchange", err)
	}
}

func reasonForStatus(status int) string {
	switch status {
	case 404:
		return "endpoint_not_found"
	case 401, 403:
		return "authentication_failed"
	default:
		return fmt.Sprintf("status_%d", status)
	}
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}

// Test hooks for the two non-deterministic envelope inputs.
var (
	newUserID = func() string {
		return uuid.NewString()
	}
	nowMillis = func() int64 {
		return time.Now().UnixMilli()
	}
)
