package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/brightpixel/studiosite/internal/auth"
	"github.com/brightpixel/studiosite/internal/middleware"
	"github.com/brightpixel/studiosite/internal/telemetry/metrics"
	"github.com/brightpixel/studiosite/internal/telemetry/tracing"
	"github.com/brightpixel/studiosite/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=admin_test

const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeConfigError        = "CONFIG_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeInternalError      = "INTERNAL_ERROR"
)

type credentialsVerifier interface {
	Verify(username, password string) (bool, error)
}

type tokenIssuer interface {
	Issue(identity auth.Identity) (string, *auth.Claims, error)
	Verify(token string) (*auth.Claims, error)
	TTL() time.Duration
}

type sessionStore interface {
	Save(ctx context.Context, claims *auth.Claims) error
	Revoke(ctx context.Context, sessionID string) (bool, error)
}

type Handler struct {
	verifier       credentialsVerifier
	tokenIssuer    tokenIssuer
	sessionStore   sessionStore // nil when session revocation is disabled
	metricsManager *metrics.Manager
	secureCookies  bool
}

func NewHandler(
	verifier credentialsVerifier,
	tokenIssuer tokenIssuer,
	sessionStore sessionStore,
	metricsManager *metrics.Manager,
	secureCookies bool,
) *Handler {
	return &Handler{
		verifier:       verifier,
		tokenIssuer:    tokenIssuer,
		sessionStore:   sessionStore,
		metricsManager: metricsManager,
		secureCookies:  secureCookies,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginRateLimitPerMin int,
) {
	mainRouter.HandleFunc("/admin/login", handler.handleLoginPage).Methods("GET").Name("admin-login-page")
	mainRouter.HandleFunc("/admin", handler.handleDashboardPage).Methods("GET").Name("admin-dashboard-page")

	loginRouter := mainRouter.PathPrefix("/api/admin").Subrouter()
	loginRouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("admin-login")
	if rateLimiter != nil {
		// rate limit the login endpoint to slow down password guessing
		loginRouter.Use(middleware.RateLimit(rateLimiter, handler.metricsManager, "admin-login", loginRateLimitPerMin))
	}

	apiRouter := mainRouter.PathPrefix("/api/admin").Subrouter()
	apiRouter.HandleFunc("/session", handler.handleSession).Methods("GET", "OPTIONS").Name("admin-session")
	apiRouter.HandleFunc("/logout", handler.handleLogout).Methods("GET", "POST", "OPTIONS").Name("admin-logout")
}

type userResponse struct {
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

type loginResponse struct {
	Success  bool          `json:"success"`
	User     *userResponse `json:"user,omitempty"`
	Redirect string        `json:"redirect,omitempty"`
	Error    string        `json:"error,omitempty"`
	Code     string        `json:"code,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "adminHandler.login")
	defer span.End()

	loginReq, isForm, err := parseLoginRequest(r)
	if err != nil {
		log.Errorf("login, parse request: %s", err)
		handler.countLogin("bad_request")
		span.SetStatus(codes.Error, "bad-request")
		pkg.WriteJSON(w, http.StatusBadRequest, loginResponse{
			Error: "malformed request body",
			Code:  CodeBadRequest,
		})
		return
	}

	if loginReq.From == "" {
		loginReq.From = r.URL.Query().Get("from")
	}
	redirectTo := auth.SafeRedirectPath(loginReq.From)
	// plain html form posts from the login page get redirects instead of json
	wantsRedirect := isForm && strings.Contains(r.Header.Get("Accept"), "text/html")

	reqIp, _ := pkg.ReadUserIP(r)
	span.SetAttributes(attribute.String("user.ip", reqIp))

	ok, err := handler.verifier.Verify(loginReq.Username, loginReq.Password)
	if err != nil {
		handler.loginConfigError(w, err, "verify credentials")
		span.SetStatus(codes.Error, "config-error")
		return
	}
	if !ok {
		log.Tracef("failed login attempt for user [%s] from %s", loginReq.Username, reqIp)
		handler.countLogin("invalid_credentials")
		span.SetStatus(codes.Error, "invalid-credentials")
		if wantsRedirect {
			http.Redirect(w, r, auth.LoginRedirectURL(redirectTo)+"&error=1", http.StatusSeeOther)
			return
		}
		pkg.WriteJSON(w, http.StatusUnauthorized, loginResponse{
			Error: "invalid credentials",
			Code:  CodeInvalidCredentials,
		})
		return
	}

	token, claims, err := handler.tokenIssuer.Issue(auth.Identity{
		Username: loginReq.Username,
		Role:     auth.RoleAdmin,
	})
	if err != nil {
		handler.loginConfigError(w, err, "issue token")
		span.SetStatus(codes.Error, "issue-token-error")
		return
	}

	if handler.sessionStore != nil {
		if err := handler.sessionStore.Save(ctx, claims); err != nil {
			log.Errorf("login, save session: %s", err)
			handler.countLogin("error")
			span.SetStatus(codes.Error, "save-session-error")
			span.RecordError(err)
			pkg.WriteJSON(w, http.StatusInternalServerError, loginResponse{
				Error: "internal error",
				Code:  CodeInternalError,
			})
			return
		}
	}

	http.SetCookie(w, auth.NewSessionCookie(token, handler.tokenIssuer.TTL(), handler.secureCookies))
	handler.countLogin("success")
	log.Infof("admin login success for [%s] from %s", claims.Subject, reqIp)
	span.SetStatus(codes.Ok, "ok")

	if wantsRedirect {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		User: &userResponse{
			Username: claims.Subject,
			Role:     claims.Role,
		},
		Redirect: redirectTo,
	})
}

func (handler *Handler) loginConfigError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, auth.ErrConfiguration) {
		log.Errorf("login, %s: admin credentials or signing key not configured: %s", op, err)
		handler.countLogin("config_error")
		pkg.WriteJSON(w, http.StatusInternalServerError, loginResponse{
			Error: "server misconfiguration",
			Code:  CodeConfigError,
		})
		return
	}

	log.Errorf("login, %s: %s", op, err)
	handler.countLogin("error")
	pkg.WriteJSON(w, http.StatusInternalServerError, loginResponse{
		Error: "internal error",
		Code:  CodeInternalError,
	})
}

func (handler *Handler) countLogin(outcome string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLoginAttempts.WithLabelValues(outcome).Inc()
	}
}

func parseLoginRequest(r *http.Request) (loginRequest, bool, error) {
	var loginReq loginRequest
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			return loginRequest{}, false, err
		}
		return loginReq, false, nil
	}

	if err := pkg.ParseFormBody(r); err != nil {
		return loginRequest{}, true, err
	}
	return loginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		From:     r.PostFormValue("from"),
	}, true, nil
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "adminHandler.logout")
	defer span.End()

	if token, ok := auth.TokenFromRequest(r); ok && handler.sessionStore != nil {
		if claims, err := handler.tokenIssuer.Verify(token); err == nil {
			if _, err := handler.sessionStore.Revoke(ctx, claims.SessionID); err != nil {
				log.Errorf("logout, revoke session %s: %s", claims.SessionID, err)
				span.RecordError(err)
			}
		}
	}

	http.SetCookie(w, auth.ExpiredSessionCookie(handler.secureCookies))
	span.SetStatus(codes.Ok, "ok")

	if r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, auth.LoginPagePath, http.StatusSeeOther)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, loginResponse{Success: true})
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *userResponse `json:"user,omitempty"`
	SessionID     string        `json:"session_id,omitempty"`
	IssuedAt      *time.Time    `json:"issued_at,omitempty"`
	ExpiresAt     *time.Time    `json:"expires_at,omitempty"`
}

func (handler *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		pkg.WriteJSON(w, http.StatusUnauthorized, sessionResponse{})
		return
	}

	resp := sessionResponse{
		Authenticated: true,
		User: &userResponse{
			Username: claims.Subject,
			Role:     claims.Role,
		},
		SessionID: claims.SessionID,
	}
	if claims.IssuedAt != nil {
		resp.IssuedAt = &claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = &claims.ExpiresAt.Time
	}
	pkg.WriteJSON(w, http.StatusOK, resp)
}
