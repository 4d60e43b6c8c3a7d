package tokenapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"med-schedule/internal/platform/httpclient"
	"med-schedule/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("token api not configured")
	ErrUnauthorized  = errors.New("token rejected")
	ErrUpstream      = errors.New("token api upstream error")
)

// Config del verificador remoto. BaseURL y APIKey vienen de env vars
// (AUTH_VERIFY_URL, AUTH_API_KEY) en quien lo instancia.
type Config struct {
	BaseURL string
	APIKey  string

	// Header de la API key; "X-Api-Key" si queda vacío.
	APIKeyHeader string
	Timeout      time.Duration
}

// Verifier implementa auth.AuthVerifier contra el servicio de identidad
// vía POST /v1/tokens/verify.
type Verifier struct {
	client       *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewVerifier(cfg Config) (*Verifier, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, ErrNotConfigured
	}
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}

	client, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Verifier{
		client:       client,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: header,
	}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	if v.apiKey != "" {
		headers[v.apiKeyHeader] = v.apiKey
	}

	var out struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	err := v.client.DoJSON(ctx, http.MethodPost, "/v1/tokens/verify", headers,
		map[string]string{"token": token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("token api response missing user_id")
	}
	return auth.Claims{UserID: out.UserID, Email: strings.TrimSpace(out.Email)}, nil
}
