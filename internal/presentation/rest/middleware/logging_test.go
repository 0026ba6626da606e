package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

func TestLoggingMiddleware_Success(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/charges", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := LoggingMiddleware(logger)
	handler := middleware(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoggingMiddleware_PropagatesError(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/charges", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := LoggingMiddleware(logger)
	handler := middleware(func(c echo.Context) error {
		return errors.New("handler failed")
	})

	err := handler(c)
	assert.Error(t, err)
}
