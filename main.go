package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "labloan-backend/docs"
	"labloan-backend/internal/availability"
	"labloan-backend/internal/catalog"
	"labloan-backend/internal/directory"
	"labloan-backend/internal/loans"
	"labloan-backend/internal/platform/auth"
	"labloan-backend/internal/platform/db"
	"labloan-backend/internal/platform/logger"
)

// @title                      Lab computer loan API
// @version                    1.0
// @description                Availability, loan requests and administrator review for lab computers.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// config path may be given as the first argument
	cfgPath := db.DefaultPath()
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := db.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty || cfg.Mode == db.ModeDev,
	})
	logger.Info().Str("mode", cfg.Mode).Str("version", cfg.Version).Msg("starting")

	ctx := context.Background()
	conn, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("database unavailable")
	}
	defer conn.Close()
	logger.Info().Str("db", cfg.DB.DBName).Str("host", cfg.DB.Host).Msg("connected to DB")

	if cfg.DB.AutoMigrate {
		if err := directory.Migrate(ctx, conn); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Msg("schema migrated")
	}

	dir := directory.NewStore(conn)
	labs := loans.NewLabMap(cfg.Labs)
	if labs.Len() == 0 {
		logger.Warn().Msg("no lab mapping configured, every program can book every lab")
	}

	if cfg.Mode == db.ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.RequestLogger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == db.ModeDev {
		// CORS is only needed for the local frontend dev server
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "Location", "X-Request-ID"},
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", healthz(conn))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	secret := []byte(cfg.Auth.JWTSecret)
	loc := cfg.Location()

	// /api/v1
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewService(dir, secret, cfg.TokenTTL()))

	authed := api.Group("", auth.RequireAuth(secret))
	availability.RegisterRoutes(authed, availability.NewService(dir, labs, loc))

	loanSvc := loans.NewService(dir, labs, loans.Options{WindowDays: cfg.Booking.WindowDays, Location: loc})
	loans.RegisterStudentRoutes(authed.Group("", auth.RequireRole(directory.RoleStudent)), loanSvc)
	admin := authed.Group("", auth.RequireRole(directory.RoleAdmin))
	loans.RegisterAdminRoutes(admin, loanSvc)
	catalog.RegisterRoutes(admin, catalog.NewService(dir))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// TLS when a certificate is configured, plain HTTP otherwise
	var certFile, keyFile string
	if cfg.Certificate.Cert != "" && cfg.Certificate.Key != "" {
		certFile = fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Cert)
		keyFile = fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Key)
	}

	go func() {
		var err error
		if certFile != "" {
			logger.Info().Str("addr", srv.Addr).Msg("listening (https)")
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			logger.Warn().Str("addr", srv.Addr).Msg("listening (http, no certificate configured)")
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}

func healthz(conn *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := conn.PingContext(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "directory unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	}
}
