package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"wordbridge/internal/constants"
)

func TestRequestIDMiddlewarePropagatesToContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(requestIDMiddleware())

	var seen string
	router.GET("/status", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(constants.RequestIDKey).(string)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen != "req-42" {
		t.Errorf("Expected handler context to carry req-42, got %q", seen)
	}
	if got := w.Header().Get("X-Request-Id"); got != "req-42" {
		t.Errorf("Expected response header to echo the request id, got %q", got)
	}
}

func TestRequestIDMiddlewareGeneratesWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(requestIDMiddleware())

	var seen string
	router.GET("/status", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(constants.RequestIDKey).(string)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	if seen == "" {
		t.Error("Expected a generated request id in the handler context")
	}
	if w.Header().Get("X-Request-Id") != seen {
		t.Errorf("Header id %q does not match context id %q", w.Header().Get("X-Request-Id"), seen)
	}
}
