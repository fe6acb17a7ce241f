package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(header string) (*httptest.ResponseRecorder, string) {
	gin.SetMode(gin.TestMode)
	var seen string
	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set(HeaderKey, header)
	}
	router.ServeHTTP(w, req)
	return w, seen
}

func TestMiddlewarePropagatesIncomingID(t *testing.T) {
	w, seen := serve("req-123")
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get(HeaderKey))
}

func TestMiddlewareReplacesOversizedID(t *testing.T) {
	w, seen := serve(strings.Repeat("x", 200))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(HeaderKey))
}
