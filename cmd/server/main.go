package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"socialhub/internal/config"
	apphttp "socialhub/internal/http"
	"socialhub/internal/logging"
	"socialhub/internal/repository"
	"socialhub/internal/repository/postgres"
	"socialhub/internal/repository/sqlite"
	"socialhub/internal/service"
	"socialhub/internal/session"
	"socialhub/internal/storage"
	"socialhub/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := token.NewCodec([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		logger.Fatalf("token codec: %v", err)
	}

	db, userRepo, messageRepo, err := openRepositories(ctx, cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := messageRepo.Init(ctx); err != nil {
		logger.Fatalf("init message repository: %v", err)
	}

	userService, err := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatalf("user service: %v", err)
	}
	messageService := service.NewMessageService(messageRepo, userRepo)
	resolver := session.NewResolver(codec, userRepo)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		messageService,
		codec,
		resolver,
		storageSvc,
		apphttp.Options{
			TokenTTL:       cfg.Auth.TokenTTL,
			CookieSecure:   cfg.Auth.CookieSecure,
			AllowedOrigins: cfg.Server.AllowOrigins,
		},
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			logger.Infof("listening on %s (tls)", cfg.Server.Addr)
			err = srv.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			logger.Infof("listening on %s", cfg.Server.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func openRepositories(ctx context.Context, cfg config.Config) (*sql.DB, repository.UserRepository, repository.MessageRepository, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return db, postgres.NewUserRepository(db), postgres.NewMessageRepository(db), nil
	default:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, sqlite.NewUserRepository(db), sqlite.NewMessageRepository(db), nil
	}
}

// buildStorage returns nil when no bucket is configured; profile image
// references are then served as stored.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("object storage disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}
	if cfg.Storage.AccessKey != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, cfg.Storage.Bucket, cfg.Storage.URLTTL), nil
}
