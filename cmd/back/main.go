package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weconnect/cmd/back/internal/api"
	"weconnect/cmd/back/internal/app"
	"weconnect/cmd/back/internal/cache"
	"weconnect/cmd/back/internal/producer"
	"weconnect/cmd/back/internal/repo"
	"weconnect/internal/logger"
	"weconnect/internal/metrics"
	"weconnect/internal/rabbitmq"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to yaml config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.Level(cfg.LogLevel),
	}))
	slog.SetDefault(log)

	ctxParent := logger.NewContext(context.Background(), log)

	ctx, cancel := signal.NotifyContext(ctxParent, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGABRT, syscall.SIGTERM)
	defer cancel()
	go forceShutdown(ctx)

	if err := runMigrations(cfg.MigrateDir, cfg.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	rawDB, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		log.Error("open db", "err", err)
		os.Exit(1)
	}
	defer rawDB.Close()
	if cfg.MaxOpenConns > 0 {
		rawDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	gdb, err := repo.Open(rawDB)
	if err != nil {
		log.Error("open gorm", "err", err)
		os.Exit(1)
	}
	store := repo.NewRepository(gdb)

	server := &api.Server{
		Service: app.NewService(store, app.BcryptHasher{Cost: bcrypt.DefaultCost}),
		Tokens:  api.TokenIssuer{Secret: cfg.JwtSecret, TTL: cfg.TokenJwtTTl},
		DB:      rawDB,
	}

	// redis и rabbit не обязательны: без них нет отзыва токенов и событий
	if cfg.AddrCache != "" {
		tokens := cache.NewRedisClient(cfg.AddrCache, cfg.PasswordCache, cfg.DBCacheTokens)
		if err := tokens.Connect(ctx); err != nil {
			log.Error("Redis - not connected, token revocation disabled", "err", err)
			tokens.Close()
		} else {
			log.Warn("Redis - connected")
			server.Revoked = tokens
			defer tokens.Close()
		}
	}

	if cfg.HostRBMQ != "" {
		rabbit, err := rabbitmq.NewRabbitMQClient(cfg.HostRBMQ, cfg.PortRBMQ, cfg.UserNameRBMQ, cfg.PasswordRBMQ, cfg.VHostRBMQ, api.ActivityQueue)
		if err != nil {
			log.Error("RabbitMQ - not connected, activity events disabled", "err", err)
		} else {
			log.Warn("RabbitMQ - connected")
			server.Producer = producer.NewProducer(rabbit.Ch)
			defer rabbit.Close()
		}
	}

	metricsServer := StartMetricsServer(cfg.MetricsAddr)

	grpcServer, healthServer := newGrpcServer(log)
	ln, err := net.Listen("tcp", cfg.HostGRPC)
	if err != nil {
		log.Error("listen grpc", "err", err)
		os.Exit(1)
	}
	go func() {
		log.Warn("GRPC server - started", "addr", cfg.HostGRPC)
		if err := grpcServer.Serve(ln); err != nil {
			log.Error("grpc serve", "err", err)
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Host,
		Handler:      api.CORS(api.WithLogger(log)(api.AccessLog(server.Router()))),
		ReadTimeout:  cfg.TimeOut,
		WriteTimeout: cfg.TimeOut,
		BaseContext:  func(net.Listener) context.Context { return ctxParent },
	}
	go func() {
		log.Warn("HTTP server - started", "addr", cfg.Host)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Warn("shutting down")

	healthServer.Shutdown()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics shutdown", "err", err)
	}
	grpcServer.GracefulStop()
}

func runMigrations(dir, dsn string) error {
	migrator, err := migrate.New(dir, dsn)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// newGrpcServer - только health-сервис, REST живет на http
func newGrpcServer(log *slog.Logger) (*grpc.Server, *health.Server) {
	loggingOpts := []logging.Option{
		logging.WithLogOnEvents(
			logging.StartCall,
			logging.FinishCall,
		),
	}

	server := grpc.NewServer(
		grpc.Creds(insecure.NewCredentials()),
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(interceptorLogger(log), loggingOpts...),
			MetricsInterceptor(),
		),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)
	return server, healthServer
}

func interceptorLogger(l *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		metrics.GrpcRequestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		metrics.GrpcRequestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())

		return resp, err
	}
}

func StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		slog.Info("Starting metrics server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server", "err", err)
		}
	}()
	return srv
}

func forceShutdown(ctx context.Context) {
	log := logger.FromContext(ctx)
	const shutdownDelay = 15 * time.Second

	<-ctx.Done()
	time.Sleep(shutdownDelay)

	log.Error("failed to graceful shutdown")
	os.Exit(1)
}
