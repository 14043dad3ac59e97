package echo

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/mihaimyh/paybridge/router"
)

func tagged(tag string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, tag+":"+r.Method)
	})
}

func testHandlers() router.Handlers {
	return router.Handlers{
		Bill:    tagged("bill"),
		Webhook: tagged("webhook"),
	}
}


func serveWith(t *testing.T, h router.Handlers, method, path, form string) (int, string) {
	t.Helper()

	e := echo.New()
	Register(e, h)

	req := httptest.NewRequest(method, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.String()
}

func TestNew_RecoversPanics(t *testing.T) {
	e := New(router.Handlers{
		Bill:    http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
		Webhook: tagged("webhook"),
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, router.CreateBillPath, http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRegister_Routes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"create bill", http.MethodPost, router.CreateBillPath, http.StatusOK, "bill:POST"},
		{"create bill other method reaches handler", http.MethodGet, router.CreateBillPath, http.StatusOK, "bill:GET"},
		{"webhook post", http.MethodPost, router.WebhookPath, http.StatusOK, "webhook:POST"},
		{"webhook get reaches handler", http.MethodGet, router.WebhookPath, http.StatusOK, "webhook:GET"},
		{"health", http.MethodGet, router.HealthPath, http.StatusOK, `{"status":"ok"}`},
		{"unknown path", http.MethodGet, "/api/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serve(t, tt.method, tt.path)
			assert.Equal(t, tt.status, status)
			if tt.body != "" {
				assert.Equal(t, tt.body, strings.TrimSpace(body))
			}
		})
	}
}

func TestRegister_HealthRejectsPost(t *testing.T) {
	status, _ := serve(t, http.MethodPost, router.HealthPath)
	assert.NotEqual(t, http.StatusOK, status)
}

func TestRegister_FormBodyForwarded(t *testing.T) {
	h := router.Handlers{
		Bill: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_, _ = io.WriteString(w, r.PostForm.Get("name"))
		}),
		Webhook: tagged("webhook"),
	}

	status, body := serveWith(t, h, http.MethodPost, router.CreateBillPath, "name=Aisyah&amount=10000")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Aisyah", body)
}

func serve(t *testing.T, method, path string) (int, string) {
	t.Helper()
	return serveWith(t, testHandlers(), method, path, "")
}
