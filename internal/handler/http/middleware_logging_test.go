package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
)

// requestWithLogger puts a buffer-backed logger into the request context the
// same way withTraceID does.
func requestWithLogger(method, path string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	l := zerolog.New(buf)
	return req.WithContext(l.WithContext(req.Context()))
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		body      string
		wantLevel string
	}{
		{"GET 200", http.MethodGet, "/invoices", http.StatusOK, "[]", "info"},
		{"POST 201", http.MethodPost, "/invoices", http.StatusCreated, `{"id":1}`, "info"},
		{"GET 404", http.MethodGet, "/invoices/9", http.StatusNotFound, `{}`, "info"},
		{"POST 500", http.MethodPost, "/auth/login", http.StatusInternalServerError, `{}`, "warn"},
		{"implicit 200", http.MethodGet, "/healthz", 0, "ok", "info"},
	}

	h := NewHandler(nil, config.Server{}, logger.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte(tt.body))
			})

			rec := httptest.NewRecorder()
			h.withLogging(next).ServeHTTP(rec, requestWithLogger(tt.method, tt.path, &buf))

			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}

			entry := lastLogLine(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.method, entry["method"])
			assert.Equal(t, tt.path, entry["uri"])
			assert.EqualValues(t, wantStatus, entry["status"])
			assert.EqualValues(t, len(tt.body), entry["size"])
			assert.Contains(t, entry, "duration")
			assert.Contains(t, entry, "remote_addr")

			assert.Equal(t, wantStatus, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}
