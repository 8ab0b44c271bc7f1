package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCanonicalPathCollapsesIDs(t *testing.T) {
	cases := map[string]string{
		"/":                        "/",
		"/api/issues":              "/api/issues",
		"/api/issues/42":           "/api/issues/:id",
		"/api/projects/7/chat/9":   "/api/projects/:id/chat/:id",
		"/api/projects/7/issues/":  "/api/projects/:id/issues",
		"/uploads/3f2a-report.png": "/uploads/3f2a-report.png",
	}
	for raw, want := range cases {
		if got := canonicalPath(raw); got != want {
			t.Errorf("canonicalPath(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestInstrumentHandlerPreservesHijack(t *testing.T) {
	ts := httptest.NewServer(InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("instrumented writer does not expose http.Hijacker")
			return
		}
		conn, buf, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		defer conn.Close()
		buf.WriteString("HTTP/1.1 204 No Content\r\nConnection: close\r\n\r\n")
		buf.Flush()
	})))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/projects/3/chat/ws")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 from hijacked connection, got %d", resp.StatusCode)
	}
}

func TestInstrumentHandlerRecordsStatus(t *testing.T) {
	handler := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/issues/12", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTeapot {
		t.Fatalf("expected handler status passed through, got %d", resp.Code)
	}
}
