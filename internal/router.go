package internal

import (
	"net/http"

	"github.com/brightpixel/studiosite/internal/admin"
	"github.com/brightpixel/studiosite/internal/auth"
	"github.com/brightpixel/studiosite/internal/blog"
	"github.com/brightpixel/studiosite/internal/config"
	"github.com/brightpixel/studiosite/internal/contact"
	"github.com/brightpixel/studiosite/internal/content"
	"github.com/brightpixel/studiosite/internal/customers"
	"github.com/brightpixel/studiosite/internal/invoices"
	"github.com/brightpixel/studiosite/internal/middleware"
	"github.com/brightpixel/studiosite/internal/telemetry/metrics"
	"github.com/brightpixel/studiosite/pkg"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type RouterParams struct {
	Config         *config.Config
	VersionInfo    string
	MetricsManager *metrics.Manager

	Verifier    *auth.Verifier
	TokenIssuer *auth.TokenIssuer
	// SessionStore enables server side revocation, nil keeps sessions stateless
	SessionStore *auth.RedisSessionStore
	// RateLimiter nil disables rate limiting
	RateLimiter middleware.RequestRateLimiter

	DBPool    *pgxpool.Pool
	BlogCache *blog.ResponseCache
	Catalog   *content.Catalog
	Captcha   *contact.CaptchaVerifier
	// Mailer nil makes every contact submission fail with 502
	Mailer *contact.SMTPMailer
}

func NewRouter(params RouterParams) *mux.Router {
	cfg := params.Config
	mm := params.MetricsManager
	secureCookies := !cfg.IsDevelopment()

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", handleRoot).Methods("GET").Name("root")
	r.HandleFunc("/version", handleVersion(params.VersionInfo)).Methods("GET").Name("version")

	// a nil *RedisSessionStore must not end up inside a non-nil interface
	var gate *middleware.AuthMiddlewareHandler
	var adminHandler *admin.Handler
	if params.SessionStore != nil {
		gate = middleware.NewAuthMiddlewareHandler(params.TokenIssuer, params.SessionStore, mm)
		adminHandler = admin.NewHandler(params.Verifier, params.TokenIssuer, params.SessionStore, mm, secureCookies)
	} else {
		gate = middleware.NewAuthMiddlewareHandler(params.TokenIssuer, nil, mm)
		adminHandler = admin.NewHandler(params.Verifier, params.TokenIssuer, nil, mm, secureCookies)
	}
	adminHandler.SetupRoutes(r, params.RateLimiter, cfg.LoginRateLimitAllowedPerMin)

	blog.NewHandler(blog.NewRepo(params.DBPool), params.BlogCache).SetupRoutes(r)
	customers.NewHandler(customers.NewRepo(params.DBPool)).SetupRoutes(r)
	invoices.NewHandler(
		invoices.NewService(invoices.NewRepo(params.DBPool), mm),
	).SetupRoutes(r)
	content.NewHandler(params.Catalog).SetupRoutes(r)

	captcha := params.Captcha
	if captcha == nil {
		captcha = contact.NewCaptchaVerifier(cfg.CaptchaVerifyURL, "")
	}
	contactHandler := contact.NewHandler(captcha, contact.DisabledMailer{}, cfg.CaptchaRequired, mm)
	if params.Mailer != nil {
		contactHandler = contact.NewHandler(captcha, params.Mailer, cfg.CaptchaRequired, mm)
	}
	contactHandler.SetupRoutes(r, params.RateLimiter, cfg.ContactRateLimitAllowedPerMin)

	r.Use(middleware.PanicRecovery(mm))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(mm))
	r.Use(middleware.Cors(cfg.AllowedOrigins))
	r.Use(gate.AuthCheck())
	r.Use(middleware.LimitAndDrainRequest(middleware.DefaultMaxBodyBytes))

	// router middlewares only run for matched routes, unknown protected paths
	// must still end up at the login page instead of leaking a 404 or 405
	r.NotFoundHandler = gate.AuthCheck()(http.NotFoundHandler())
	r.MethodNotAllowedHandler = gate.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}))

	return r
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func handleVersion(versionInfo string) http.HandlerFunc {
	if versionInfo == "" {
		versionInfo = "unknown"
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, versionInfo)
	}
}
