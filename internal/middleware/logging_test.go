package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	h := chiMiddleware.RequestID(WithRequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/admin/login?next=/admin", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "super-secret-token"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries; want 1", len(entries))
	}
	fields := entries[0].ContextMap()

	if fields["method"] != http.MethodPost {
		t.Errorf("method = %v", fields["method"])
	}
	if fields["path"] != "/admin/login" {
		t.Errorf("path = %v; want query string dropped", fields["path"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status = %v", fields["status"])
	}
	if fields["bytes"] != int64(len("short and stout")) {
		t.Errorf("bytes = %v", fields["bytes"])
	}
	if fields["request_id"] == nil || fields["request_id"] == "" {
		t.Error("request_id missing")
	}
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "super-secret-token" {
			t.Errorf("field %q leaked the session token", k)
		}
	}
}

func TestWithRequestLogging_ServerErrorIsWarn(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := WithRequestLogging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if logs.Len() != 1 || logs.All()[0].Level != zapcore.WarnLevel {
		t.Fatalf("want one warn entry, got %+v", logs.All())
	}
}
