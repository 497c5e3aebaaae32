package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"treasuremap-backend/internal/handlers"
	"treasuremap-backend/internal/middleware"
	"treasuremap-backend/internal/services"
	"treasuremap-backend/internal/websocket"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (g fakeGenerator) GenerateText(context.Context, string) (string, error) {
	return g.reply, g.err
}

func newTestRouter(t *testing.T, gen services.Generator, hub *websocket.Hub) (http.Handler, *middleware.JWTAuth) {
	t.Helper()
	jwtAuth := middleware.NewJWTAuth("test-secret")
	limiter := middleware.NewRateLimiter(100, time.Minute)
	t.Cleanup(limiter.Stop)

	relay := services.NewRelayService(gen, services.NopEventPublisher{}, "fake")
	return New(
		zap.NewNop(),
		jwtAuth,
		limiter,
		handlers.NewChatHandler(relay),
		handlers.NewDiagnosticsHandler("fake", hub != nil),
		hub,
		"http://localhost:5173",
	), jwtAuth
}

func do(r http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, fakeGenerator{reply: "x"}, nil)

	rr := do(r, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestChatRoutes_EndToEnd(t *testing.T) {
	r, _ := newTestRouter(t, fakeGenerator{reply: "Ahoy!"}, nil)

	for _, path := range []string{"/api/chat", "/api/v1/chat"} {
		t.Run(path, func(t *testing.T) {
			rr := do(r, http.MethodPost, path, `{"messages":[{"role":"user","content":"hello"}]}`, nil)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"message":"Ahoy!"}`, rr.Body.String())
		})
	}
}

func TestChatRoute_UpstreamFailureIsGeneric(t *testing.T) {
	r, _ := newTestRouter(t, fakeGenerator{err: errors.New("upstream unreachable")}, nil)

	rr := do(r, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hello"}]}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Something went wrong"}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "unreachable")
}

func TestChatRoute_EmptyReplyIsGeneric(t *testing.T) {
	r, _ := newTestRouter(t, fakeGenerator{reply: ""}, nil)

	rr := do(r, http.MethodPost, "/api/chat", `{"messages":[]}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Something went wrong"}`, rr.Body.String())
}

func TestDiagnosticsMe_RequiresOperatorToken(t *testing.T) {
	r, jwtAuth := newTestRouter(t, fakeGenerator{reply: "x"}, nil)

	rr := do(r, http.MethodGet, "/api/v1/diagnostics/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := jwtAuth.GenerateOperatorToken("captain", time.Hour)
	require.NoError(t, err)

	rr = do(r, http.MethodGet, "/api/v1/diagnostics/me", "", http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"operator":"captain","backend":"fake","feed":false}`, rr.Body.String())
}

func TestDiagnosticsStream_NotMountedWithoutHub(t *testing.T) {
	r, _ := newTestRouter(t, fakeGenerator{reply: "x"}, nil)

	rr := do(r, http.MethodGet, "/api/v1/diagnostics/ws?token=abc", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDiagnosticsStream_MountedWithHub(t *testing.T) {
	hub := websocket.NewHub(middleware.NewJWTAuth("test-secret"), zap.NewNop())
	r, _ := newTestRouter(t, fakeGenerator{reply: "x"}, hub)

	rr := do(r, http.MethodGet, "/api/v1/diagnostics/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestChatRoute_ErrorShape(t *testing.T) {
	r, _ := newTestRouter(t, fakeGenerator{reply: "x"}, nil)

	rr := do(r, http.MethodPost, "/api/chat", `not json`, nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"`+handlers.GenericFailure+`"}`, rr.Body.String())
}
