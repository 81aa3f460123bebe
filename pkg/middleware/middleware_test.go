package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/huyteo/Server-danentang-GK/pkg/logger"
	"github.com/huyteo/Server-danentang-GK/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS_PreflightShortCircuits(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	called := false
	r.POST("/add-products", func(c *gin.Context) { called = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/add-products", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, called)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add-products", nil))
	require.True(t, called)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) { seen = c.GetString(RequestIDKey) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err, "generated id should be a uuid")
	require.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "caller-supplied", seen)
	require.Equal(t, "caller-supplied", w.Header().Get(RequestIDHeader))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetFormat("json")
	defer func() {
		logger.SetFormat("text")
		logger.SetOutput(os.Stdout)
	}()

	r := gin.New()
	r.Use(RequestID(), AccessLog())
	r.GET("/products", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "rid-1", line["request_id"])
	assert.Equal(t, "/products", line["path"])
	assert.Equal(t, 418.0, line["status"])
	assert.Equal(t, "warning", line["level"])

	require.GreaterOrEqual(t, testutil.CollectAndCount(metrics.HTTPRequestDuration, "catalog_http_request_duration_seconds"), 1)
}
