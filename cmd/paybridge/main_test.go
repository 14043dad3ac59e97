package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimyh/paybridge/internal/config"
	"github.com/mihaimyh/paybridge/pkg/billing/billplz"
	"github.com/mihaimyh/paybridge/router"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testConfig(t *testing.T, overrides map[string]string) *config.Config {
	t.Helper()

	environment := map[string]string{
		"BILLPLZ_X_SIGNATURE":   "S3cr3t",
		"BILLPLZ_API_KEY":       "api-key",
		"BILLPLZ_COLLECTION_ID": "col_123",
		"PUBLIC_API_BASE":       "https://api.example.my",
		"APP_BASE_URL":          "https://app.example.my",
		"HTTP_ADDR":             "127.0.0.1:0",
	}
	for k, v := range overrides {
		environment[k] = v
	}

	cfg, err := config.LoadFrom(environment)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestSignCmd(t *testing.T) {
	out, err := execute(t, "sign", "id=W_79pJDk", "paid=true", "state=paid", "--secret", "S3cr3t")
	require.NoError(t, err)

	expected := billplz.ComputeSignature(map[string]string{
		"id":    "W_79pJDk",
		"paid":  "true",
		"state": "paid",
	}, "S3cr3t")
	assert.Equal(t, expected+"\n", out)
}

func TestSignCmd_SecretFromEnvironment(t *testing.T) {
	t.Setenv("BILLPLZ_X_SIGNATURE", "S3cr3t")

	out, err := execute(t, "sign", "id=abc")
	require.NoError(t, err)
	assert.Equal(t, billplz.ComputeSignature(map[string]string{"id": "abc"}, "S3cr3t")+"\n", out)
}

func TestSignCmd_Errors(t *testing.T) {
	t.Setenv("BILLPLZ_X_SIGNATURE", "")

	_, err := execute(t, "sign", "id=abc")
	assert.Error(t, err)

	_, err = execute(t, "sign", "novalue", "--secret", "s")
	assert.Error(t, err)

	_, err = execute(t, "sign", "=value", "--secret", "s")
	assert.Error(t, err)
}

func TestParseFields_ValueMayContainEquals(t *testing.T) {
	fields, err := parseFields([]string{"url=https://x.example/?a=b"})
	require.NoError(t, err)
	assert.Equal(t, "https://x.example/?a=b", fields["url"])
}

func TestRenderCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "invoice.pdf")

	stdout, err := execute(t, "render",
		"--out", out,
		"--number", "EL-202401-1234",
		"--name", "Aisyah",
		"--email", "aisyah@example.my",
		"--amount", "10050",
		"--bill-id", "W_79pJDk",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "EL-202401-1234 written to "+out)

	pdf, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestRunRender_GeneratesNumber(t *testing.T) {
	cfg := testConfig(t, map[string]string{"INVOICE_PREFIX": "ACME"})
	out := filepath.Join(t.TempDir(), "generated.pdf")

	cmd := newRenderCmd()
	buf := bytes.Buffer{}
	cmd.SetOut(&buf)

	err := runRender(cmd, cfg, renderOptions{out: out})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "ACME-"))
}

func TestNewZerolog(t *testing.T) {
	buf := bytes.Buffer{}
	zlog, err := newZerolog(&buf, "warn", false)
	require.NoError(t, err)

	zlog.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	zlog.Warn().Msg("shown")
	assert.Contains(t, buf.String(), `"service":"paybridge"`)

	_, err = newZerolog(&buf, "loud", false)
	assert.Error(t, err)

	zlog, err = newZerolog(&buf, "", true)
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, zlog.GetLevel())
}

func TestNewHTTPHandler(t *testing.T) {
	handlers := router.Handlers{
		Bill:    http.NotFoundHandler(),
		Webhook: http.NotFoundHandler(),
	}

	for _, name := range config.Routers {
		t.Run(name, func(t *testing.T) {
			handler, err := newHTTPHandler(name, handlers)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, router.HealthPath, http.NoBody))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	_, err := newHTTPHandler("martini", handlers)
	assert.Error(t, err)
}

func TestNewApp_WebhookAcknowledgesPaidCallback(t *testing.T) {
	cfg := testConfig(t, nil)
	zlog := zerolog.Nop()

	a, err := newApp(context.Background(), cfg, &zlog)
	require.NoError(t, err)
	defer a.Close()

	fields := map[string]string{
		"id":       "W_79pJDk",
		"name":     "Aisyah",
		"email":    "aisyah@example.my",
		"amount":   "10000",
		"paid":     "true",
		"state":    "paid",
		"paid_at":  "2024-01-15 10:00:00 +0800",
		"currency": "MYR",
	}
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	form.Set("x_signature", billplz.ComputeSignature(fields, "S3cr3t"))

	req := httptest.NewRequest(http.MethodPost, router.WebhookPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	families, err := a.registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "paybridge_invoice_issued_total")
	assert.Contains(t, names, "paybridge_invoice_emails_total")
}

func TestNewApp_WebhookRejectsBadSignature(t *testing.T) {
	cfg := testConfig(t, map[string]string{"ROUTER": "mux"})
	zlog := zerolog.Nop()

	a, err := newApp(context.Background(), cfg, &zlog)
	require.NoError(t, err)
	defer a.Close()

	req := httptest.NewRequest(http.MethodPost, router.WebhookPath, strings.NewReader("id=abc&paid=true&state=paid&x_signature=deadbeef"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewApp_InvalidRedisURL(t *testing.T) {
	cfg := testConfig(t, map[string]string{"REDIS_URL": "not-a-url://"})
	zlog := zerolog.Nop()

	_, err := newApp(context.Background(), cfg, &zlog)
	assert.Error(t, err)
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t, map[string]string{"METRICS_ADDR": "127.0.0.1:0"})
	zlog := zerolog.Nop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, runServe(ctx, cfg, &zlog))
}
