package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/brightpixel/studiosite/internal/auth"
	"github.com/brightpixel/studiosite/internal/blog"
	"github.com/brightpixel/studiosite/internal/config"
	"github.com/brightpixel/studiosite/internal/contact"
	"github.com/brightpixel/studiosite/internal/content"
	"github.com/brightpixel/studiosite/internal/db"
	"github.com/brightpixel/studiosite/internal/telemetry/metrics"
	"github.com/brightpixel/studiosite/internal/telemetry/tracing"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	verifier     *auth.Verifier
	tokenIssuer  *auth.TokenIssuer
	sessionStore *auth.RedisSessionStore

	blogCache *blog.ResponseCache
	catalog   *content.Catalog
	captcha   *contact.CaptchaVerifier
	mailer    *contact.SMTPMailer

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, "studiosite-backend")
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		SSLMode:        cfg.PostgresSSLMode,
		TracingEnabled: secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	// the admin gate works without the database, so a db outage is not fatal here
	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if err := db.Migrate(ctx, dbPool); err != nil {
		log.Errorf("db migrate: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("studiosite", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	verifier := auth.NewVerifier(secrets.AdminUsername, secrets.AdminPassword, secrets.AdminPasswordHash)
	if !verifier.Configured() {
		log.Errorln("admin credentials not configured, every admin login will fail with CONFIG_ERROR")
	}
	tokenIssuer := auth.NewTokenIssuer(secrets.JWTSecret, cfg.SessionTTLDuration())
	if !tokenIssuer.Configured() {
		log.Errorln("jwt secret not configured, no admin session can be issued")
	}

	var sessionStore *auth.RedisSessionStore
	if cfg.SessionRevocation {
		sessionStore = auth.NewRedisSessionStore(rdb)
		log.Infoln("admin session revocation enabled")
	}

	catalog := content.EmptyCatalog()
	if cfg.ContentPath != "" {
		catalog, err = content.LoadFile(cfg.ContentPath)
		if err != nil {
			return nil, fmt.Errorf("load content catalog: %w", err)
		}
		log.Debugf("content catalog: %d services, %d locations", len(catalog.Services), len(catalog.Locations))
	} else {
		log.Warnln("content path not set, services and locations will be empty")
	}

	var mailer *contact.SMTPMailer
	if cfg.SMTPHost != "" {
		mailer, err = contact.NewSMTPMailer(contact.MailerParams{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: secrets.SMTPUsername,
			Password: secrets.SMTPPassword,
			From:     cfg.ContactMailFrom,
			To:       cfg.ContactMailTo,
		})
		if err != nil {
			return nil, fmt.Errorf("new smtp mailer: %w", err)
		}
	} else {
		log.Warnln("smtp host not set, contact form submissions cannot be delivered")
	}

	return &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		redisClient: rdb,

		verifier:     verifier,
		tokenIssuer:  tokenIssuer,
		sessionStore: sessionStore,

		blogCache: blog.NewResponseCache(cfg.BlogCacheSizeMiB, blog.DefaultCacheTTL),
		catalog:   catalog,
		captcha:   contact.NewCaptchaVerifier(cfg.CaptchaVerifyURL, secrets.CaptchaSecret),
		mailer:    mailer,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	return NewRouter(RouterParams{
		Config:         s.config,
		VersionInfo:    s.versionInfo,
		MetricsManager: s.metricsManager,
		Verifier:       s.verifier,
		TokenIssuer:    s.tokenIssuer,
		SessionStore:   s.sessionStore,
		RateLimiter:    redis_rate.NewLimiter(s.redisClient),
		DBPool:         s.dbPool,
		BlogCache:      s.blogCache,
		Catalog:        s.catalog,
		Captcha:        s.captcha,
		Mailer:         s.mailer,
	})
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           router,
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ConnState:         s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
