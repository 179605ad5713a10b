package contact

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=contact_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightpixel/studiosite/internal/middleware"
	"github.com/brightpixel/studiosite/internal/telemetry/metrics"
	"github.com/brightpixel/studiosite/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	outcomeSent            = "sent"
	outcomeInvalid         = "invalid"
	outcomeCaptchaRejected = "captcha_rejected"
	outcomeCaptchaFailed   = "captcha_failed"
	outcomeMailFailed      = "mail_failed"
	outcomeConfigError     = "config_error"
)

type captchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type mailSender interface {
	Send(ctx context.Context, sub *Submission) error
}

type contactResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Handler struct {
	captcha         captchaVerifier
	mailer          mailSender
	captchaRequired bool
	metricsManager  *metrics.Manager
}

func NewHandler(
	captcha captchaVerifier,
	mailer mailSender,
	captchaRequired bool,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		captcha:         captcha,
		mailer:          mailer,
		captchaRequired: captchaRequired,
		metricsManager:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	rateLimitPerMin int,
) {
	router := mainRouter.PathPrefix("/api/contact").Subrouter()
	router.HandleFunc("", handler.handleSubmit).Methods("POST", "OPTIONS").Name("contact-submit")
	if rateLimiter != nil {
		router.Use(middleware.RateLimit(rateLimiter, handler.metricsManager, "contact", rateLimitPerMin))
	}
}

func (handler *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sub := &Submission{}
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(sub); err != nil {
			handler.fail(w, outcomeInvalid, "invalid json body", http.StatusBadRequest)
			return
		}
	} else {
		if err := pkg.ParseFormBody(r); err != nil {
			handler.fail(w, outcomeInvalid, "invalid form body", http.StatusBadRequest)
			return
		}
		sub.Name = r.PostFormValue("name")
		sub.Email = r.PostFormValue("email")
		sub.Phone = r.PostFormValue("phone")
		sub.Service = r.PostFormValue("service")
		sub.Message = r.PostFormValue("message")
		sub.CaptchaToken = r.PostFormValue("captcha_token")
		if sub.CaptchaToken == "" {
			// default field names of the recaptcha / hcaptcha widgets
			sub.CaptchaToken = r.PostFormValue("g-recaptcha-response")
		}
		if sub.CaptchaToken == "" {
			sub.CaptchaToken = r.PostFormValue("h-captcha-response")
		}
	}

	if err := sub.Normalize(); err != nil {
		handler.fail(w, outcomeInvalid, err.Error(), http.StatusBadRequest)
		return
	}

	if handler.captchaRequired {
		remoteIP, _ := pkg.ReadUserIP(r)
		if remoteIP == "localhost" {
			remoteIP = ""
		}
		ok, err := handler.captcha.Verify(r.Context(), sub.CaptchaToken, remoteIP)
		switch {
		case errors.Is(err, ErrCaptchaNotConfigured):
			log.Error("contact: captcha required but not configured")
			handler.fail(w, outcomeConfigError, "server misconfiguration", http.StatusInternalServerError)
			return
		case err != nil:
			log.Errorf("contact: verify captcha: %s", err)
			handler.fail(w, outcomeCaptchaFailed, "captcha verification unavailable", http.StatusBadGateway)
			return
		case !ok:
			handler.fail(w, outcomeCaptchaRejected, "captcha verification failed", http.StatusForbidden)
			return
		}
	}

	if err := handler.mailer.Send(r.Context(), sub); err != nil {
		log.Errorf("contact: send mail: %s", err)
		handler.fail(w, outcomeMailFailed, "message could not be delivered", http.StatusBadGateway)
		return
	}

	handler.count(outcomeSent)
	log.Debugf("contact request from %s forwarded", sub.Email)
	pkg.WriteJSON(w, http.StatusOK, contactResponse{Success: true})
}

func (handler *Handler) fail(w http.ResponseWriter, outcome, message string, statusCode int) {
	handler.count(outcome)
	pkg.WriteJSON(w, statusCode, contactResponse{Success: false, Error: message})
}

func (handler *Handler) count(outcome string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterContactSubmissions.WithLabelValues(outcome).Inc()
	}
}
