package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-mobile/internal/adapter/api/dto"
	"github.com/hugohenrick/chat-mobile/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		want       dto.HealthResponse
	}{
		{
			name:       "memory store",
			wantStatus: http.StatusOK,
			want:       dto.HealthResponse{Status: "ok", Version: Version, Database: "memory"},
		},
		{
			name:       "database up",
			db:         pingerFunc(func(context.Context) error { return nil }),
			wantStatus: http.StatusOK,
			want:       dto.HealthResponse{Status: "ok", Version: Version, Database: "ok"},
		},
		{
			name:       "database down",
			db:         pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
			wantStatus: http.StatusServiceUnavailable,
			want:       dto.HealthResponse{Status: "degraded", Version: Version, Database: "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			e := gin.New()
			e.GET("/health", NewHealthController(tt.db, logger.Nop{}).Health)

			w := serve(e, http.MethodGet, "/health")
			assert.Equal(t, tt.wantStatus, w.Code)

			var got dto.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
