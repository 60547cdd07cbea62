package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var e map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), sc.Text())
		out = append(out, e)
	}
	return out
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  []string
	}{
		{DebugLevel, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{InfoLevel, []string{"INFO", "WARN", "ERROR"}},
		{WarnLevel, []string{"WARN", "ERROR"}},
		{ErrorLevel, []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.level, &buf)
			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")

			var got []string
			for _, e := range entries(t, &buf) {
				got = append(got, e["level"].(string))
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.level, l.Level())
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(DebugLevel, &buf).
		WithField("component", "engine").
		WithError(errors.New("boom"))

	l.Info("solved", map[string]interface{}{"method": "newton", "iterations": 4})

	got := entries(t, &buf)
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, "solved", e["message"])
	assert.Equal(t, "engine", e["component"])
	assert.Equal(t, "boom", e["error"])
	assert.Equal(t, "newton", e["method"])
	assert.EqualValues(t, 4, e["iterations"])
	assert.NotEmpty(t, e["timestamp"])
	assert.Contains(t, e["caller"], "logger_test.go")
}

func TestWithFieldsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := New(InfoLevel, &buf)
	_ = base.WithField("request_id", "abc")
	assert.Same(t, base, base.WithError(nil))
	assert.Same(t, base, base.WithFields(nil))

	base.Info("plain")
	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.NotContains(t, got[0], "request_id")
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := NewLogger(&Config{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, l.Level())
	assert.False(t, l.Enabled(InfoLevel))
	assert.True(t, l.Enabled(ErrorLevel))

	_, err = NewLogger(&Config{Level: "info", Format: "xml", Output: "stderr"})
	assert.Error(t, err)

	_, err = NewLogger(&Config{Format: "console", Output: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)

	l, err = NewLogger(nil)
	require.NoError(t, err)
	assert.Equal(t, InfoLevel, l.Level())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, parseLevel("debug"))
	assert.Equal(t, WarnLevel, parseLevel("warning"))
	assert.Equal(t, ErrorLevel, parseLevel(" ERROR "))
	assert.Equal(t, InfoLevel, parseLevel("verbose"))
}

func TestContext(t *testing.T) {
	assert.False(t, FromContext(context.Background()).Enabled(ErrorLevel))

	var buf bytes.Buffer
	ctx := NewContext(context.Background(), New(InfoLevel, &buf))
	FromContext(ctx).Info("from context")
	assert.Len(t, entries(t, &buf), 1)

	fallback := NewNop()
	assert.Same(t, fallback, Ctx(context.Background(), fallback))
	assert.NotSame(t, fallback, Ctx(ctx, fallback))
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(InfoLevel, &buf)

	h := middleware.RequestID(Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/methods", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	got := entries(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "inside", got[0]["message"])
	assert.NotEmpty(t, got[0]["request_id"])

	done := got[1]
	assert.Equal(t, "Request completed", done["message"])
	assert.EqualValues(t, http.StatusTeapot, done["status"])
	assert.Equal(t, "/api/v1/methods", done["path"])
	assert.Equal(t, http.StatusText(http.StatusTeapot), done["error"])
}
