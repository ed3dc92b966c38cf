package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hupe1980/datasetter"
	"github.com/hupe1980/datasetter/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Healthz(t *testing.T) {
	s := New(config.ServerConfig{Addr: ":0"})

	rec, body := get(t, s.Handler(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_MountInstrumentsQueries(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(config.ServerConfig{Addr: ":0", Metrics: true}, WithRegistry(reg))
	s.Mount("letters", newLetters(t))

	rec, body := get(t, s.Handler(), "/letters/count?number=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])

	rec, _ = get(t, s.Handler(), "/letters/sample?rows=3")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = get(t, s.Handler(), "/letters/count-by/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	c := s.collector
	// /sample counts the filtered rows for its "count" field, so it records a
	// count operation of its own.
	assert.Equal(t, float64(2), testutil.ToFloat64(c.operations.WithLabelValues("letters", "count", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.operations.WithLabelValues("letters", "sample", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.operations.WithLabelValues("letters", "count_by", "error")))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.sampleRows.WithLabelValues("letters")))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	s.Handler().ServeHTTP(mrec, req)
	require.Equal(t, http.StatusOK, mrec.Code)

	out := mrec.Body.String()
	assert.Contains(t, out, `datasetter_http_requests_total{method="GET",path="/letters/count",status="200"} 1`)
	assert.Contains(t, out, `datasetter_http_requests_total{method="GET",path="/letters/count-by/:facet",status="404"} 1`)
	assert.Contains(t, out, "datasetter_operation_duration_seconds")
}

func TestServer_MetricsDisabled(t *testing.T) {
	s := New(config.ServerConfig{Addr: ":0"})
	s.Mount("letters", newLetters(t))

	rec, _ := get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, s.Handler(), "/letters/count")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_SchemaSurvivesInstrumentation(t *testing.T) {
	s := New(config.ServerConfig{Addr: ":0", Metrics: true})
	s.Mount("letters", newLetters(t))

	// A typed filter only matches if it was coerced through the schema.
	_, body := get(t, s.Handler(), "/letters/count?number=13")
	assert.Equal(t, float64(1), body["count"])
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("Generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("Propagated", func(t *testing.T) {
		want := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, want)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Header().Get(RequestIDHeader))
	})

	t.Run("InvalidReplaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid\nx")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.NotEqual(t, "not-a-uuid\nx", rec.Header().Get(RequestIDHeader))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	s := New(config.ServerConfig{Addr: ":0"}, WithLogger(datasetter.NoopLogger()))
	s.engine.GET("/boom", func(*gin.Context) {
		panic("boom")
	})

	rec, body := get(t, s.Handler(), "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["detail"])
}

func TestServer_Run(t *testing.T) {
	t.Run("GracefulShutdown", func(t *testing.T) {
		s := New(config.ServerConfig{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("ListenError", func(t *testing.T) {
		s := New(config.ServerConfig{Addr: "no-port"})
		err := s.Run(context.Background())
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "no-port"))
	})
}
