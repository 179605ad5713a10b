package middleware

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/brightpixel/studiosite/internal/auth"
	"github.com/brightpixel/studiosite/internal/telemetry/metrics"
	"github.com/brightpixel/studiosite/internal/telemetry/tracing"
	"github.com/brightpixel/studiosite/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

type tokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type sessionChecker interface {
	IsActive(ctx context.Context, sessionID string) (bool, error)
}

// AuthMiddlewareHandler is the admin request gate. Paths at or below a protected
// prefix need a valid session token, everything else passes through.
type AuthMiddlewareHandler struct {
	tokenVerifier  tokenVerifier
	sessionChecker sessionChecker // nil means stateless tokens, no revocation lookup
	metricsManager *metrics.Manager

	protectedPrefixes []string
	bypassPaths       map[string]bool
}

func NewAuthMiddlewareHandler(
	tokenVerifier tokenVerifier,
	sessionChecker sessionChecker,
	metricsManager *metrics.Manager,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		tokenVerifier:  tokenVerifier,
		sessionChecker: sessionChecker,
		metricsManager: metricsManager,
		protectedPrefixes: []string{
			"/admin",
			"/api/admin",
		},
		bypassPaths: map[string]bool{
			auth.LoginPagePath:  true,
			"/api/admin/login":  true,
			"/api/admin/logout": true,
		},
	}
}

// IsProtected classifies the path. Prefixes match whole path segments only,
// so /administrator is public while /admin/invoices is protected.
func (h *AuthMiddlewareHandler) IsProtected(p string) bool {
	if p == "" {
		p = "/"
	}
	p = path.Clean("/" + p)

	if h.bypassPaths[p] {
		return false
	}
	for _, prefix := range h.protectedPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if !h.IsProtected(r.URL.Path) {
				span.SetStatus(codes.Ok, "public")
				next.ServeHTTP(w, r)
				return
			}

			token, ok := auth.TokenFromRequest(r)
			if !ok {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				h.deny(w, r)
				span.SetStatus(codes.Error, "missing-token")
				return
			}

			claims, err := h.tokenVerifier.Verify(token)
			if err != nil {
				reqIp, _ := pkg.ReadUserIP(r)
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s from %s: %s", r.URL.Path, reqIp, err)
				h.deny(w, r)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}

			if h.sessionChecker != nil {
				active, err := h.sessionChecker.IsActive(ctx, claims.SessionID)
				if err != nil {
					log.Errorf("[failed session check] => %s: %s", r.URL.Path, err)
					h.deny(w, r)
					span.SetStatus(codes.Error, "session-check-err")
					span.RecordError(err)
					return
				}
				if !active {
					log.Tracef("[revoked session] [auth middleware] unauthorized => %s", r.URL.Path)
					h.deny(w, r)
					span.SetStatus(codes.Error, "session-revoked")
					return
				}
			}

			if h.metricsManager != nil {
				h.metricsManager.CounterGateDecisions.WithLabelValues("allow").Inc()
			}
			span.SetAttributes(attribute.String("admin.session", claims.SessionID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(ctx, claims)))
		})
	}
}

func (h *AuthMiddlewareHandler) deny(w http.ResponseWriter, r *http.Request) {
	if h.metricsManager != nil {
		h.metricsManager.CounterGateDecisions.WithLabelValues("deny").Inc()
	}

	from := r.URL.Path
	if r.URL.RawQuery != "" {
		from += "?" + r.URL.RawQuery
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, auth.LoginRedirectURL(from), http.StatusFound)
}
