package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"chatbot-relay/internal/domain"
	"chatbot-relay/internal/metrics"
	"chatbot-relay/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	out   usecase.ChatOutput
	err   error
	calls int
	in    usecase.ChatInput
}

func (s *stubService) Chat(_ context.Context, in usecase.ChatInput) (usecase.ChatOutput, error) {
	s.calls++
	s.in = in
	return s.out, s.err
}

func newTestRouter(t *testing.T, svc ChatService, origins ...string) *gin.Engine {
	t.Helper()
	srv, err := New(svc, metrics.NewRelayMetrics(), nil, origins)
	require.NoError(t, err)
	return srv.Router()
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func parseBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestNew_ValidatesDependencies(t *testing.T) {
	_, err := New(nil, metrics.NewRelayMetrics(), nil, nil)
	require.Error(t, err)

	_, err = New(&stubService{}, nil, nil, nil)
	require.Error(t, err)
}

func TestRoot(t *testing.T) {
	rec := doRequest(newTestRouter(t, &stubService{}), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := parseBody[map[string]any](t, rec)
	require.Equal(t, "running", body["status"])
	require.Contains(t, body["endpoints"], "/chat")
}

func TestHealth(t *testing.T) {
	rec := doRequest(newTestRouter(t, &stubService{}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", parseBody[map[string]any](t, rec)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubService{out: usecase.ChatOutput{Reply: "네"}})
	doRequest(router, http.MethodPost, "/chat", `{"message":"안녕"}`)

	rec := doRequest(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `chatbot_relay_requests_total{outcome="ok"} 1`)
}

func TestChat_HappyPath(t *testing.T) {
	svc := &stubService{out: usecase.ChatOutput{Reply: "추천 영화입니다"}}
	rec := doRequest(newTestRouter(t, svc), http.MethodPost, "/chat", `{"message":"영화 추천해줘"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "추천 영화입니다", parseBody[chatResponse](t, rec).Reply)
	require.Equal(t, usecase.ChatInput{Message: "영화 추천해줘"}, svc.in)
}

func TestChat_MalformedBody(t *testing.T) {
	svc := &stubService{}
	for _, body := range []string{`not-json`, `[1,2,3]`, `"just a string"`} {
		rec := doRequest(newTestRouter(t, svc), http.MethodPost, "/chat", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body=%q", body)
		require.Equal(t, domain.MsgBadJSON, parseBody[chatResponse](t, rec).Reply)
	}
	require.Equal(t, 0, svc.calls, "malformed bodies must never reach the service")
}

func TestChat_MapsServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		reply  string
	}{
		{
			name:   "whitespace-only message",
			err:    &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "empty_message"},
			status: http.StatusBadRequest,
			reply:  domain.MsgEmptyMessage,
		},
		{
			name:   "missing configuration",
			err:    &usecase.Error{Code: usecase.ErrorConfiguration, Reason: "missing_credentials"},
			status: http.StatusInternalServerError,
			reply:  domain.MsgNotConfigured,
		},
		{
			name:   "upstream 404",
			err:    &usecase.Error{Code: usecase.ErrorUpstream, Status: 404},
			status: http.StatusInternalServerError,
			reply:  domain.MsgEndpointNotFound,
		},
		{
			name:   "upstream 401",
			err:    &usecase.Error{Code: usecase.ErrorUpstream, Status: 401},
			status: http.StatusInternalServerError,
			reply:  domain.MsgAuthFailed,
		},
		{
			name:   "upstream 500",
			err:    &usecase.Error{Code: usecase.ErrorUpstream, Status: 500},
			status: http.StatusInternalServerError,
			reply:  "챗봇 서비스 오류 (500)",
		},
		{
			name:   "unreachable",
			err:    &usecase.Error{Code: usecase.ErrorUnreachable},
			status: http.StatusInternalServerError,
			reply:  domain.MsgUnreachable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(newTestRouter(t, &stubService{err: tc.err}), http.MethodPost, "/chat", `{"message":"  "}`)
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.reply, parseBody[chatResponse](t, rec).Reply)
		})
	}
}

func TestChat_CORSAllowedOrigin(t *testing.T) {
	router := newTestRouter(t, &stubService{out: usecase.ChatOutput{Reply: "네"}}, "http://localhost:3000")

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"안녕"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestChat_CORSDisallowedOrigin(t *testing.T) {
	router := newTestRouter(t, &stubService{out: usecase.ChatOutput{Reply: "네"}}, "http://localhost:3000")

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"안녕"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://evil.invalid")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}
