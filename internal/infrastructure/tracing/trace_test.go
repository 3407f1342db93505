package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStartSpanPropagatesTraceContext(t *testing.T) {
	tracer := New("test", zap.NewNop())

	span, ctx := tracer.StartSpan(context.Background(), "op")

	assert.Equal(t, span.TraceID, GetTraceID(ctx))
	assert.Equal(t, span.SpanID, GetSpanID(ctx))
}

func TestGetTraceIDEmptyWithoutSpan(t *testing.T) {
	assert.Equal(t, TraceID(""), GetTraceID(context.Background()))
	assert.Equal(t, SpanID(""), GetSpanID(context.Background()))
}

func TestFormatTrace(t *testing.T) {
	got := FormatTrace(TraceID("t1"), SpanID("s1"))
	assert.Equal(t, "[trace:t1 span:s1]", got)
}

func TestHTTPMiddlewareExposesTraceToHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := New("test", zap.NewNop())

	var seen TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/ping", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-ID", "req_incoming")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, TraceID("req_incoming"), seen)
	assert.Equal(t, "req_incoming", rec.Header().Get("X-Trace-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Span-ID"))
}
