// Package handler serves the relay behind API Gateway proxy events, for
// deployments where the relay runs as a Lambda instead of a long-lived
// server.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"chatbot-relay/internal/domain"
	"chatbot-relay/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

// ChatService is the relay pipeline consumed by the handler.
type ChatService interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type Handler struct {
	svc ChatService
	log *slog.Logger
}

func NewHandler(svc ChatService) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("handler: chat service must not be nil")
	}
	return &Handler{svc: svc, log: slog.Default()}, nil
}

// Handle routes one API Gateway event. The route set mirrors the HTTP
// server exactly: GET / and /health, POST /chat.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(event.Headers)

	switch {
	case event.HTTPMethod == http.MethodGet && event.Path == "/":
		return respond(http.StatusOK, map[string]any{
			"message": "챗봇 백엔드 API 서버입니다.",
			"endpoints": map[string]string{
				"/chat":   "POST - 챗봇과 대화",
				"/health": "GET - 서버 상태 확인",
			},
			"status": "running",
		}, corrID), nil
	case event.HTTPMethod == http.MethodGet && event.Path == "/health":
		return respond(http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "백엔드 서버가 정상 작동 중입니다.",
		}, corrID), nil
	case event.HTTPMethod == http.MethodPost && event.Path == "/chat":
		return h.handleChat(ctx, event, corrID), nil
	default:
		return respond(http.StatusNotFound, chatResponse{Reply: domain.MsgInternal}, corrID), nil
	}
}

func (h *Handler) handleChat(ctx context.Context, event events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	var req chatRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return respond(http.StatusBadRequest, chatResponse{Reply: domain.MsgBadJSON}, corrID)
	}

	out, err := h.svc.Chat(ctx, usecase.ChatInput{Message: req.Message})
	if err != nil {
		status, reply := usecase.HTTPReply(err)
		h.log.Error("chat request failed", "status", status, "correlation_id", corrID, "err", err)
		return respond(status, chatResponse{Reply: reply}, corrID)
	}
	return respond(http.StatusOK, chatResponse{Reply: out.Reply}, corrID)
}

func respond(status int, body any, corrID string) events.APIGatewayProxyResponse {
	buf, err := json.Marshal(body)
	if err != nil {
		// The bodies above are plain structs and maps; a marshal failure
		// would be a programming error.
		status = http.StatusInternalServerError
		buf = []byte(`{"reply":"` + domain.MsgInternal + `"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json; charset=UTF-8",
			correlationHeader: corrID,
		},
		Body: string(buf),
	}
}

// correlationID echoes the caller-provided id when present (header names
// arrive in arbitrary case from API Gateway) and mints one otherwise.
func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && v != "" {
			return v
		}
	}
	return uuid.NewString()
}
