package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brightpixel/studiosite/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
)

const DefaultCaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

var ErrCaptchaNotConfigured = errors.New("captcha secret not configured")

type captchaResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// CaptchaVerifier checks tokens against a reCAPTCHA / hCaptcha compatible siteverify endpoint.
type CaptchaVerifier struct {
	httpClient *http.Client
	verifyURL  string
	secret     string
}

func NewCaptchaVerifier(verifyURL, secret string) *CaptchaVerifier {
	if verifyURL == "" {
		verifyURL = DefaultCaptchaVerifyURL
	}
	return &CaptchaVerifier{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		verifyURL: verifyURL,
		secret:    secret,
	}
}

func (v *CaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "captcha.verify")
	defer span.End()

	if v.secret == "" {
		span.SetStatus(codes.Error, "not configured")
		return false, ErrCaptchaNotConfigured
	}
	if token == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("create captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("captcha request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Errorf("close captcha response body: %s", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return false, fmt.Errorf("captcha verify status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return false, fmt.Errorf("read captcha response: %w", err)
	}

	var captchaResp captchaResponse
	if err := json.Unmarshal(body, &captchaResp); err != nil {
		return false, fmt.Errorf("unmarshal captcha response: %w", err)
	}

	if !captchaResp.Success {
		log.Debugf("captcha rejected: %v", captchaResp.ErrorCodes)
	}
	span.SetStatus(codes.Ok, "verified")
	return captchaResp.Success, nil
}
