package obs_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/obs"
)

func TestNewLoggerToLevels(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	var buf bytes.Buffer
	logger := obs.NewLoggerTo(&buf, "json", "warn")
	logger.Info().Msg("hidden")
	logger.Warn().Str("item", "Laptop").Msg("visible")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "visible", line["message"])
	require.Equal(t, "Laptop", line["item"])
	require.Contains(t, line, "time")

	buf.Reset()
	logger = obs.NewLoggerTo(&buf, "json", "")
	logger.Info().Msg("default level is info")
	require.NotZero(t, buf.Len())
}

func TestRequestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	handler := middleware.RequestID(obs.RequestLogger{Logger: zerolog.New(&buf)}.Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("ok"))
		}),
	))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "http_request", line["message"])
	require.Equal(t, float64(http.StatusCreated), line["status"])
	require.Equal(t, "/api/v1/customers", line["route"])
	require.Equal(t, float64(2), line["bytes"])
	require.NotEmpty(t, line["request_id"])
}
