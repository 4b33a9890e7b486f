package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/shipmerge/internal/core"
)

func TestRespondError_LogLevel(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		wantLevel string
	}{
		{
			name:      "known client error logs a warning",
			err:       &core.MissingUploadError{Missing: []string{"invoice"}},
			status:    http.StatusBadRequest,
			wantLevel: "level=WARN",
		},
		{
			name:      "unmapped error logs an error even below 500",
			err:       errors.New("something odd happened"),
			status:    http.StatusBadRequest,
			wantLevel: "level=ERROR",
		},
		{
			name:      "server status logs an error",
			err:       core.ErrTooManyUploads,
			status:    http.StatusInternalServerError,
			wantLevel: "level=ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prev := slog.Default()
			slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
			t.Cleanup(func() { slog.SetDefault(prev) })

			ts := newTestServer(t)
			req := httptest.NewRequest(http.MethodGet, "/api/merge", nil)
			rec := httptest.NewRecorder()

			ts.respondError(rec, req, tt.err, tt.status)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, buf.String(), tt.wantLevel)
			assert.Contains(t, buf.String(), "request error")
		})
	}
}
