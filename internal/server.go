package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/fitlog/internal/cache"
	"github.com/2beens/fitlog/internal/config"
	"github.com/2beens/fitlog/internal/db"
	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/events"
	"github.com/2beens/fitlog/internal/fitlog/insights"
	fitlogmcp "github.com/2beens/fitlog/internal/fitlog/mcp"
	"github.com/2beens/fitlog/internal/fitlog/profiles"
	"github.com/2beens/fitlog/internal/fitlog/reconciler"
	"github.com/2beens/fitlog/internal/fitlog/routines"
	"github.com/2beens/fitlog/internal/fitlog/stats"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
	"github.com/2beens/fitlog/internal/llm"
	"github.com/2beens/fitlog/internal/lock"
	"github.com/2beens/fitlog/internal/middleware"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config   *config.Config
	location *time.Location
	dbPool   *pgxpool.Pool

	redisClient   *redis.Client
	llmClient     *llm.Client
	insightsCache cache.Cache
	secretAuth    *middleware.SecretAuth

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	LLMAPIKey               string
	SharedSecretHash        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	location, err := calendar.LoadLocation(params.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "fitlog", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitlog-backend")
	if err != nil {
		return nil, err
	}

	secretAuth := middleware.NewSecretAuth(params.SharedSecretHash)
	if !secretAuth.Enabled() {
		log.Warnln("shared secret not set, all routes are open")
	}

	return &Server{
		config:      params.Config,
		location:    location,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient: rdb,
		llmClient: llm.NewClient(llm.Config{
			APIKey:  params.LLMAPIKey,
			BaseURL: params.Config.LLMBaseURL,
			Model:   params.Config.LLMModel,
			Timeout: params.Config.LLMTimeout(),
		}),
		insightsCache: cache.NewFreeCache(params.Config.InsightsCacheSizeMB),
		secretAuth:    secretAuth,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) today() time.Time {
	return calendar.Day(time.Now(), s.location)
}

func (s *Server) summaryLocker() reconciler.Locker {
	switch s.config.SummaryLockMode {
	case config.LockModeLocal:
		return lock.NewLocal()
	case config.LockModeRedis:
		return lock.NewRedis(s.redisClient, lock.DefaultTTL)
	default:
		return nil
	}
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitlog-router"))

	summariesRepo := summaries.NewRepo(s.dbPool)
	eventsRepo := events.NewRepo(s.dbPool)
	profilesService := profiles.NewService(profiles.NewRepo(s.dbPool))
	summariesService := summaries.NewService(summariesRepo, profilesService)
	eventsService := events.NewService(eventsRepo)
	analyzer := stats.NewAnalyzer(summariesRepo, profilesService)

	reconcilerService := reconciler.NewService(reconciler.Params{
		Summaries: summariesRepo,
		Events:    eventsRepo,
		Profiles:  profilesService,
		Extractor: llm.NewExtractor(s.llmClient),
		Locker:    s.summaryLocker(),
		Metrics:   s.metricsManager,
		Location:  s.location,
	})
	reconcilerHandler := reconciler.NewHandler(reconcilerService)

	logRouter := r.PathPrefix("/log").Subrouter()
	logRouter.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"log",
		s.config.LogRateLimitAllowedPerMin,
		s.metricsManager,
	))
	// any method reaches the handlers, they answer non-POST with a JSON 405
	logRouter.HandleFunc("", reconcilerHandler.HandleLog).Name("log")
	logRouter.HandleFunc("/workout", reconcilerHandler.HandleLogWorkout).Name("log-workout")

	r.HandleFunc("/events/{id}", reconcilerHandler.HandleRemove).Methods("DELETE", "OPTIONS").Name("remove-event")

	eventsHandler := events.NewHandler(eventsService)
	r.HandleFunc("/events/{userId}/date/{date}", eventsHandler.HandleListForDay).Methods("GET", "OPTIONS").Name("events-for-day")
	r.HandleFunc("/events/{userId}/page/{page}/size/{size}", eventsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-events")

	summariesHandler := summaries.NewHandler(summariesService, s.today)
	r.HandleFunc("/summaries/{userId}", summariesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-summaries")
	r.HandleFunc("/summaries/{userId}/date/{date}", summariesHandler.HandleDay).Methods("GET", "OPTIONS").Name("get-summary")

	profilesHandler := profiles.NewHandler(profilesService)
	r.HandleFunc("/profiles/{userId}", profilesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profiles/{userId}", profilesHandler.HandleUpsert).Methods("PUT", "OPTIONS").Name("upsert-profile")

	statsHandler := stats.NewHandler(analyzer, s.today)
	r.HandleFunc("/stats/{userId}", statsHandler.HandleReport).Methods("GET", "OPTIONS").Name("stats")

	coach := insights.NewCoach(summariesRepo, s.llmClient, s.insightsCache, s.config.InsightsTTL(), s.metricsManager)
	insightsHandler := insights.NewHandler(coach, s.today)
	r.HandleFunc("/insights/{userId}", insightsHandler.HandleInsight).Methods("GET", "OPTIONS").Name("insights")

	routinesHandler := routines.NewHandler(routines.NewService(routines.NewRepo(s.dbPool)))
	r.HandleFunc("/routines/{userId}", routinesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/routines/{userId}", routinesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-routine")
	r.HandleFunc("/routines/{userId}/{id}", routinesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-routine")

	mcpServer := fitlogmcp.NewServer(fitlogmcp.ServerParams{
		Pool:      s.dbPool,
		Summaries: summariesService,
		Events:    eventsService,
		Stats:     analyzer,
		Today:     s.today,
	})
	r.PathPrefix("/mcp").Handler(mcp.NewStreamableHTTPHandler(
		func(*http.Request) *mcp.Server { return mcpServer },
		nil,
	)).Name("mcp")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET").Name("health")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(s.secretAuth.AuthCheck())
	r.Use(middleware.LimitAndDrainRequest(middleware.DefaultMaxBodyBytes))

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// extraction waits on the llm
		WriteTimeout: 2 * time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	var shutdownErr error

	// stop taking requests before closing what they use
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("http server: %w", err))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("metrics http server: %w", err))
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("redis client: %w", err))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	for _, err := range multierr.Errors(shutdownErr) {
		log.Errorf(" >>> graceful shutdown: %s", err)
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
