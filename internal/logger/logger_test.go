package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWithLoggerKeepsExisting(t *testing.T) {
	ctx, first := ContextWithLogger(context.Background(), "abc")
	assert.Equal(t, "abc", first.Data[requestIDLoggerKey])

	ctx2, second := ContextWithLogger(ctx, "other")
	assert.Same(t, first, second)
	assert.Equal(t, ctx, ctx2)
	assert.Same(t, first, FromContext(ctx2))
}

func TestContextWithLoggerGeneratesID(t *testing.T) {
	_, rlog := ContextWithLogger(context.Background(), "")
	id, _ := rlog.Data[requestIDLoggerKey].(string)
	assert.NotEmpty(t, id)
}

func TestFromContextWithoutLogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestMiddlewareWritesAccessLine(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	h := middleware.RequestID(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, loggerFromContext(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.NotNil(t, hook.LastEntry())
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/healthz", entry.Data["path"])
	assert.NotEmpty(t, entry.Data[requestIDLoggerKey])
}
