package logs

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/simorq_mailer/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Server:        config.ServerConfig{Environment: "production"},
		Observability: config.ObservabilityConfig{ServiceName: "simorq_mailer", ServiceVersion: "test"},
		Logging:       config.LoggingConfig{Level: "info"},
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_StdoutJSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := newWith(baseConfig(), &buf)

	log.Info("hello", "to", "user@test.com")
	log.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "simorq_mailer", rec["service"])
	assert.Equal(t, "production", rec["env"])
	assert.Equal(t, "user@test.com", rec["to"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_TextInDevelopment(t *testing.T) {
	cfg := baseConfig()
	cfg.Server.Environment = "development"
	cfg.Logging.Format = "text"
	cfg.Logging.Level = "debug"

	var buf bytes.Buffer
	newWith(cfg, &buf).Debug("visible")

	assert.Contains(t, buf.String(), "msg=visible")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailer.log")
	cfg := baseConfig()
	cfg.Logging.Output.File = config.FileLogConfig{Enabled: true, Path: path, MaxSizeMB: 1}

	var stdout bytes.Buffer
	newWith(cfg, &stdout).Info("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, stdout.String(), "stdout is only a fallback when no other output is enabled")
}

func TestLokiWriter_Push(t *testing.T) {
	var (
		mu       sync.Mutex
		received []lokiPush
		user     string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p lokiPush
		_ = json.Unmarshal(body, &p)

		mu.Lock()
		received = append(received, p)
		user, _, _ = r.BasicAuth()
		mu.Unlock()

		assert.Equal(t, "/loki/api/v1/push", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := baseConfig()
	cfg.Logging.Output.Loki = config.LokiConfig{Enabled: true, Endpoint: srv.URL + "/", Username: "grafana", Password: "token"}

	log := newWith(cfg, io.Discard)
	log.Warn("pushed", "recipient", "user@test.com")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	require.Len(t, received[0].Streams, 1)

	stream := received[0].Streams[0]
	assert.Equal(t, "simorq_mailer", stream.Stream["service"])
	assert.Equal(t, "production", stream.Stream["env"])
	require.Len(t, stream.Values, 1)
	assert.True(t, strings.Contains(stream.Values[0][1], `"msg":"pushed"`))
	assert.Equal(t, "grafana", user)
}

func TestLokiWriter_RejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	lw := &lokiWriter{
		endpoint: srv.URL,
		client:   srv.Client(),
		labels:   map[string]string{"service": "simorq_mailer"},
		now:      func() time.Time { return time.Unix(0, 42) },
	}

	_, err := lw.Write([]byte(`{"msg":"x"}` + "\n"))
	assert.Error(t, err)
}

func TestMultiHandler_FansOut(t *testing.T) {
	var info, errOnly bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	log := slog.New(h).With("service", "simorq_mailer")
	log.Info("routine")
	log.Error("failure")

	assert.Contains(t, info.String(), "routine")
	assert.Contains(t, info.String(), "failure")
	assert.NotContains(t, errOnly.String(), "routine")
	assert.Contains(t, errOnly.String(), `"service":"simorq_mailer"`)
}
