package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portfolio-api/internal/auth"
	"portfolio-api/internal/config"
	"portfolio-api/internal/domain"
	apphttp "portfolio-api/internal/http"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/repository/sqlite"
	"portfolio-api/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}
	if strings.TrimSpace(cfg.Admin.Email) == "" || strings.TrimSpace(cfg.Admin.Password) == "" {
		logger.Fatalf("admin bootstrap email and password are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	users := sqlite.NewStore(db, repository.Users,
		sqlite.WithTransform[domain.User]("password", auth.HashPassword))
	projects := sqlite.NewStore(db, repository.Projects)
	companies := sqlite.NewStore(db, repository.Companies)
	invalidTokens := sqlite.NewStore(db, repository.InvalidTokens)

	if err := users.Init(ctx); err != nil {
		logger.Fatalf("init user store: %v", err)
	}
	if err := projects.Init(ctx); err != nil {
		logger.Fatalf("init project store: %v", err)
	}
	if err := companies.Init(ctx); err != nil {
		logger.Fatalf("init company store: %v", err)
	}
	if err := invalidTokens.Init(ctx); err != nil {
		logger.Fatalf("init invalid token store: %v", err)
	}

	if err := seedAdmin(ctx, users, cfg.Admin.Email, cfg.Admin.Password, logger); err != nil {
		logger.Fatalf("seed admin user: %v", err)
	}

	authSvc := auth.NewService(users, invalidTokens)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	handler := apphttp.NewHandler(logger, users, projects, companies, authSvc, tokens, storageSvc)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// seedAdmin creates the bootstrap admin user when no row with the configured
// email exists yet.
func seedAdmin(ctx context.Context, users *sqlite.Store[domain.User], email, password string, logger *logrus.Logger) error {
	existing, err := users.Get(ctx, repository.Fields{"email": email})
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	// the store's password transform hashes the value on the way in
	if _, err := users.Create(ctx, repository.Fields{"email": email, "password": password}); err != nil {
		return err
	}
	logger.Infof("seeded admin user %s", email)
	return nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Backend != "s3" {
		logger.Infof("using local upload dir %s", cfg.Upload.Dir)
		return storage.NewLocalService(cfg.Upload.Dir), nil
	}

	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
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
	return storage.NewS3Service(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix), nil
}
