package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newContext(header string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(RequestIDKey, header)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestRequestIDFallbacks(t *testing.T) {
	assert.Equal(t, "unknown", RequestID(newContext("")))
	assert.Equal(t, "from-header", RequestID(newContext("from-header")))

	c := newContext("from-header")
	c.Set(RequestIDKey, "from-context")
	assert.Equal(t, "from-context", RequestID(c))
}

func TestAttachStoresLogger(t *testing.T) {
	SetLogger(zap.NewNop())
	c := newContext("")

	log := Attach(c, "req-1")

	assert.Equal(t, "req-1", RequestID(c))
	assert.Same(t, log, FromContext(c))
}
