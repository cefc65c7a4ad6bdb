// Package sms adaptadores del puerto SMSSender: pasarela ESMS.VN y envío simulado en log.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var _ ports.SMSSender = (*ESMSSender)(nil)

const (
	// DefaultBaseURL endpoint GET de ESMS.VN.
	DefaultBaseURL = "http://rest.esms.vn/MainService.svc/json/SendMultipleMessage_V4_get"

	esmsSuccess = "100"
	// esmsTypeBrandname SmsType 2: mensaje con brandname (OTP/CSKH).
	esmsTypeBrandname = "2"
)

// ESMSConfig credenciales de la pasarela.
type ESMSConfig struct {
	APIKey    string
	SecretKey string
	Brandname string
	BaseURL   string
}

// ESMSSender envía SMS por la API REST de ESMS.VN.
type ESMSSender struct {
	cfg        ESMSConfig
	httpClient *http.Client
	log        *logger.Logger
}

// NewESMSSender construye el adaptador.
func NewESMSSender(cfg ESMSConfig, log *logger.Logger) *ESMSSender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ESMSSender{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.Component("sms.esms"),
	}
}

type esmsResponse struct {
	CodeResult   string `json:"CodeResult"`
	ErrorMessage string `json:"ErrorMessage"`
	SMSID        string `json:"SMSID"`
}

// Send envía message a phone. CodeResult distinto de "100" es un error.
func (s *ESMSSender) Send(ctx context.Context, phone, message string) error {
	q := url.Values{}
	q.Set("ApiKey", s.cfg.APIKey)
	q.Set("SecretKey", s.cfg.SecretKey)
	q.Set("Phone", phone)
	q.Set("Content", message)
	q.Set("Brandname", s.cfg.Brandname)
	q.Set("SmsType", esmsTypeBrandname)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("ESMS: crear request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ESMS: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("ESMS: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ESMS: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var out esmsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("ESMS: respuesta no JSON: %w", err)
	}
	if out.CodeResult != esmsSuccess {
		return fmt.Errorf("ESMS: código %s: %s", out.CodeResult, out.ErrorMessage)
	}

	s.log.Info().Str("phone", logger.MaskPhone(phone)).Str("sms_id", out.SMSID).Msg("SMS enviado")
	return nil
}
