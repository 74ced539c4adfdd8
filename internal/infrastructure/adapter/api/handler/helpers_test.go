package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/middleware"
	coremocks "github.com/zazzles-app/credit-ledger/mocks/port/core"
)

var (
	testBusinessID = uuid.MustParse("5b0d7a52-4d3c-4c55-9b8e-2f2c1f6f9a10")
	testNow        = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds a router with the error responder so handlers can report through c.Error
func newTestRouter(t *testing.T) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorResponder(coremocks.NewMockLogger(t).AllowAll()))
	return router
}

func performRequest(router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func intPtr(v int) *int {
	return &v
}
