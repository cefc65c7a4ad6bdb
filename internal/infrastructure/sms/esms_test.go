package sms_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/infrastructure/sms"
	"github.com/jhoicas/taller-api/pkg/logger"
)

func esmsServer(t *testing.T, body string, got *url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			*got = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestESMSSender_Exito(t *testing.T) {
	var q url.Values
	srv := esmsServer(t, `{"CodeResult":"100","SMSID":"abc-1"}`, &q)
	s := sms.NewESMSSender(sms.ESMSConfig{APIKey: "k", SecretKey: "s", Brandname: "BAOTRI", BaseURL: srv.URL}, nil)

	require.NoError(t, s.Send(context.Background(), "0912345678", "Ma OTP cua ban la: 123456"))
	assert.Equal(t, "k", q.Get("ApiKey"))
	assert.Equal(t, "s", q.Get("SecretKey"))
	assert.Equal(t, "0912345678", q.Get("Phone"))
	assert.Equal(t, "Ma OTP cua ban la: 123456", q.Get("Content"))
	assert.Equal(t, "BAOTRI", q.Get("Brandname"))
	assert.Equal(t, "2", q.Get("SmsType"))
}

func TestESMSSender_CodigoDeError(t *testing.T) {
	srv := esmsServer(t, `{"CodeResult":"101","ErrorMessage":"Sai ApiKey"}`, nil)
	s := sms.NewESMSSender(sms.ESMSConfig{APIKey: "k", SecretKey: "s", BaseURL: srv.URL}, nil)

	err := s.Send(context.Background(), "0912345678", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sai ApiKey")
}

func TestESMSSender_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "caído", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	s := sms.NewESMSSender(sms.ESMSConfig{BaseURL: srv.URL}, nil)

	assert.Error(t, s.Send(context.Background(), "0912345678", "hola"))
}

type failingSender struct{}

func (failingSender) Send(context.Context, string, string) error { return errors.New("sin red") }

func TestDevFallback_TragaElError(t *testing.T) {
	s := sms.NewDevFallback(failingSender{}, nil)
	assert.NoError(t, s.Send(context.Background(), "0912345678", "hola"))
}

func TestNew_SeleccionDeSender(t *testing.T) {
	assert.IsType(t, &sms.LogSender{}, sms.New(sms.ESMSConfig{}, true, nil))
	assert.IsType(t, sms.DisabledSender{}, sms.New(sms.ESMSConfig{}, false, nil))
	assert.IsType(t, &sms.ESMSSender{}, sms.New(sms.ESMSConfig{APIKey: "k", SecretKey: "s"}, false, nil))
	assert.IsType(t, &sms.DevFallback{}, sms.New(sms.ESMSConfig{APIKey: "k", SecretKey: "s"}, true, nil))
}

func TestNew_ProduccionSinCredencialesFallaSinRegistrarCodigo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	err := sms.New(sms.ESMSConfig{}, false, log).Send(context.Background(), "0912345678", "Ma OTP cua ban la: 482913.")

	assert.ErrorIs(t, err, sms.ErrNotConfigured)
	assert.NotContains(t, buf.String(), "482913")
}

func TestLogSender_SoloTelefonoEnmascaradoSobreDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	require.NoError(t, sms.NewLogSender(log).Send(context.Background(), "0912345678", "Ma OTP cua ban la: 482913."))

	out := buf.String()
	assert.Contains(t, out, "*******678")
	assert.NotContains(t, out, "0912345678")
	assert.NotContains(t, out, "482913")
}

func TestLogSender_DebugIncluyeCuerpoSinDuplicarMessage(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})

	require.NoError(t, sms.NewLogSender(log).Send(context.Background(), "0912345678", "Ma OTP cua ban la: 482913."))

	out := buf.String()
	assert.Contains(t, out, `"body":"Ma OTP cua ban la: 482913."`)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Equal(t, 1, strings.Count(line, `"message":`), "una sola clave message por línea: %s", line)
	}
}

func TestDevFallback_NoRegistraCodigoSobreDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	require.NoError(t, sms.NewDevFallback(failingSender{}, log).Send(context.Background(), "0912345678", "codigo 482913"))

	assert.NotContains(t, buf.String(), "482913")
}
