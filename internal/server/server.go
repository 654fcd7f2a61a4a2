// Package server is the gin HTTP surface of the relay.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"chatbot-relay/internal/domain"
	"chatbot-relay/internal/metrics"
	"chatbot-relay/internal/usecase"
)

// ChatService is the relay pipeline consumed by the HTTP handlers.
type ChatService interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type Server struct {
	svc     ChatService
	metrics *metrics.RelayMetrics
	log     *slog.Logger
	origins []string
}

// New creates the HTTP surface. origins is the browser origin allowlist for
// cross-origin /chat calls; when empty, no CORS headers are emitted.
func New(svc ChatService, m *metrics.RelayMetrics, log *slog.Logger, origins []string) (*Server, error) {
	if svc == nil {
		return nil, errors.New("server: chat service must not be nil")
	}
	if m == nil {
		return nil, errors.New("server: metrics must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{svc: svc, metrics: m, log: log, origins: origins}, nil
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(s.origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: s.origins,
			AllowMethods: []string{http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	router.POST("/chat", s.handleChat)

	return router
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "챗봇 백엔드 API 서버입니다.",
		"endpoints": gin.H{
			"/chat":   "POST - 챗봇과 대화",
			"/health": "GET - 서버 상태 확인",
		},
		"status": "running",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "백엔드 서버가 정상 작동 중입니다.",
	})
}

func (s *Server) handleChat(c *gin.Context) {
	start := time.Now()

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.ObserveChat("bad_request_body", time.Since(start))
		c.JSON(http.StatusBadRequest, chatResponse{Reply: domain.MsgBadJSON})
		return
	}

	out, err := s.svc.Chat(c.Request.Context(), usecase.ChatInput{Message: req.Message})
	if err != nil {
		status, reply := usecase.HTTPReply(err)
		s.metrics.ObserveChat(outcomeForError(err), time.Since(start))
		s.log.Error("chat request failed", "status", status, "err", err)
		c.JSON(status, chatResponse{Reply: reply})
		return
	}

	s.metrics.ObserveChat("ok", time.Since(start))
	s.log.Info("chat request served", "reply_len", len(out.Reply), "elapsed", time.Since(start))
	c.JSON(http.StatusOK, chatResponse{Reply: out.Reply})
}

func outcomeForError(err error) string {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		return strings.ToLower(string(usecase.ErrorInternal))
	}
	return strings.ToLower(string(ucErr.Code))
}
