package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type readiness struct {
	Status string          `json:"status"`
	Deps   map[string]bool `json:"deps"`
}

func TestHealth(t *testing.T) {
	g := gin.New()
	RegisterHealth(g)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())
}

func TestReadyReportsEachDependency(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	healthy := true
	g := gin.New()
	RegisterHealth(g,
		Dependency{Name: "redis", Check: func(ctx context.Context) error { return client.Ping(ctx).Err() }},
		Dependency{Name: "database", Check: func(ctx context.Context) error {
			if !healthy {
				return errors.New("no reachable servers")
			}
			return nil
		}},
	)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var rr readiness
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rr))
	require.Equal(t, "ready", rr.Status)
	require.Equal(t, map[string]bool{"redis": true, "database": true}, rr.Deps)

	healthy = false
	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rr))
	require.Equal(t, "not_ready", rr.Status)
	require.False(t, rr.Deps["database"])
	require.True(t, rr.Deps["redis"])
}
