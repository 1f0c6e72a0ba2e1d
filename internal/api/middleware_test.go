package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"

	"monitoring-service/internal/logging"
)

func TestRequestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, err := logging.New(t.TempDir(), "info")
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	hook := test.NewLocal(logger.Logger)

	r := gin.New()
	r.Use(RequestLoggingMiddleware(logger))
	r.GET("/tasks", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/tasks?building_id=BLD_001", nil)
	req.RemoteAddr = "10.1.2.3:4444"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var line string
	for _, e := range hook.AllEntries() {
		if strings.HasPrefix(e.Message, "Request:") {
			line = e.Message
		}
	}
	if line == "" {
		t.Fatal("no request log line emitted")
	}
	for _, want := range []string{"GET /tasks?building_id=BLD_001", "Status: 204", "10.1.2.3"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
}
