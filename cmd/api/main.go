package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahwlsqja/auth-nonce-service/docs"
	"github.com/ahwlsqja/auth-nonce-service/internal/authnonce"
	"github.com/ahwlsqja/auth-nonce-service/internal/common/handler"
	"github.com/ahwlsqja/auth-nonce-service/internal/common/middleware"
	"github.com/ahwlsqja/auth-nonce-service/internal/config"
	"github.com/ahwlsqja/auth-nonce-service/internal/walletauth"
	"github.com/ahwlsqja/auth-nonce-service/internal/worker"
	pkgdb "github.com/ahwlsqja/auth-nonce-service/pkg/db"
	"github.com/ahwlsqja/auth-nonce-service/pkg/eip712"
	"github.com/ahwlsqja/auth-nonce-service/pkg/nonce"
	pkgredis "github.com/ahwlsqja/auth-nonce-service/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Auth Nonce Service API
// @version 1.0
// @description Single-use nonce issuance, verification and consumption for replay protection, with EIP-712 wallet sign-in
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey ClientKeyAuth
// @in header
// @name X-Client-Key

func main() {
	// 1) 로거 초기화
	logger, err := initLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 2) 설정 로드
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("starting server",
		zap.String("environment", cfg.Server.Environment),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("nonce_backend", cfg.Nonce.Backend),
	)

	// 3) Nonce 저장소 초기화 (fail-fast)
	backend, err := initNonceBackend(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize nonce backend", zap.Error(err))
	}
	defer backend.close()

	// 4) Nonce manager
	manager := nonce.NewManager(backend.store, logger,
		nonce.WithTTL(cfg.Nonce.TTL),
		nonce.WithMetrics(nonce.NewMetrics(prometheus.DefaultRegisterer)),
	)

	// 5) 만료 nonce 정리 워커
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if cfg.Worker.Enabled {
		sweeper := worker.NewSweeper(manager, cfg.Worker.PollInterval, cfg.Nonce.Retention, logger)
		go sweeper.Run(workerCtx)
	}

	// 6) 라우터 구성
	router := setupRouter(cfg, logger, manager, backend.pingers)

	// 7) HTTP 서버 생성
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 8) 서버 비동기 시작
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	logger.Info("server started",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("swagger", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Server.Port)),
	)

	// 9) 종료 시그널 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopWorker()

	// 10) Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func initLogger() (*zap.Logger, error) {
	env := os.Getenv("ENVIRONMENT")
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// nonceBackend bundles the selected store with its health checks and cleanup
type nonceBackend struct {
	store   nonce.Store
	pingers map[string]handler.Pinger
	close   func()
}

func initNonceBackend(cfg *config.Config, logger *zap.Logger) (*nonceBackend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cfg.Nonce.Backend {
	case config.BackendMySQL:
		db, err := pkgdb.New(pkgdb.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Name:            cfg.Database.Name,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := pkgdb.Ping(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := pkgdb.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
			logger.Info("database migrations applied")
		}
		return &nonceBackend{
			store: nonce.NewMySQLStore(pkgdb.NewTxRunner(db), logger),
			pingers: map[string]handler.Pinger{
				"database": handler.PingFunc(func(ctx context.Context) error { return pkgdb.Ping(ctx, db) }),
			},
			close: func() { db.Close() },
		}, nil

	case config.BackendRedis:
		rdb, err := pkgredis.Connect(ctx, pkgredis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return &nonceBackend{
			store: nonce.NewRedisStoreWithRetention(rdb, cfg.Nonce.Retention, logger),
			pingers: map[string]handler.Pinger{
				"redis": handler.PingFunc(func(ctx context.Context) error { return pkgredis.Ping(ctx, rdb) }),
			},
			close: func() { rdb.Close() },
		}, nil

	default:
		logger.Warn("using in-memory nonce store; nonces are lost on restart")
		return &nonceBackend{
			store:   nonce.NewMemoryStore(),
			pingers: map[string]handler.Pinger{},
			close:   func() {},
		}, nil
	}
}

func setupRouter(cfg *config.Config, logger *zap.Logger, manager *nonce.Manager, pingers map[string]handler.Pinger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	// Swagger 설정
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health & metrics endpoints
	healthHandler := handler.NewHealthHandler(pingers)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ============================================================================
	// Dependencies Setup
	// ============================================================================

	// EIP-712 verifier for wallet sign-in; spends nonces through the manager
	verifier := eip712.NewEthVerifier(eip712.Config{
		ChainID:            cfg.EIP712.ChainID,
		VerifyingContract:  cfg.EIP712.VerifyingContract,
		TimestampTolerance: cfg.EIP712.TimestampTolerance,
	}, manager, logger)

	// ============================================================================
	// Service & Handler Setup
	// ============================================================================

	nonceHandler := authnonce.NewHandler(authnonce.NewService(manager, logger))
	walletAuthHandler := walletauth.NewHandler(walletauth.NewService(manager, verifier, logger))

	// ============================================================================
	// Route Registration
	// ============================================================================

	v1 := router.Group("/api/v1")
	{
		nonceHandler.RegisterRoutes(v1)
		walletAuthHandler.RegisterRoutes(v1)
	}

	return router
}
