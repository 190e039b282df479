package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chalethaven/config"
	"chalethaven/cron"
	"chalethaven/database"
	"chalethaven/database/repository"
	"chalethaven/handlers"
	"chalethaven/middleware"
	"chalethaven/routes"
	"chalethaven/services/auth"
	"chalethaven/services/contact"
	"chalethaven/services/listing"
	"chalethaven/services/mailer"
	"chalethaven/services/payment"
	"chalethaven/services/storage"
	"chalethaven/services/tasks"
	"chalethaven/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := database.InitDB(cfg); err != nil {
		logger.Fatal("main: database unavailable", zap.Error(err))
	}
	if err := utils.InitCache(cfg); err != nil {
		logger.Warn("main: redis unavailable, token revocation disabled", zap.Error(err))
	}

	db := database.Database()
	listingRepo := repository.NewMongoListingRepo(db)
	userRepo := repository.NewMongoUserRepository(db)
	leadRepo := repository.NewMongoLeadRepo(db)

	// services.
	var revoker auth.TokenRevoker
	if utils.AuthCacheClient != nil {
		revoker = auth.NewRedisTokenRevoker(utils.AuthCacheClient)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("main: JWT_SECRET not set, console sign-in disabled")
	}
	authService := auth.NewService(userRepo, revoker, cfg.JWTSecret, cfg.JWTTTL, logger)
	listingService := listing.NewService(listingRepo, logger)

	var creator payment.SessionCreator
	if sc, err := payment.NewStripeCreator(cfg.StripeSecretKey); err == nil {
		creator = sc
	} else {
		logger.Warn("main: payments disabled", zap.Error(err))
	}
	checkoutService := payment.NewCheckoutService(listingService, creator, cfg.SiteURL, cfg.DefaultCurrency, logger)

	creds := storage.Credentials{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
	}
	var signer handlers.UploadSigner
	var uploader handlers.FileUploader
	if s, err := storage.NewSigner(creds); err == nil {
		signer = s
	} else {
		logger.Warn("main: upload signing disabled", zap.Error(err))
	}
	if u, err := storage.NewUploader(creds, logger); err == nil {
		uploader = u
	} else {
		logger.Warn("main: server uploads disabled", zap.Error(err))
	}

	queue := asynq.NewClient(cron.QueueRedisOpt(cfg))
	defer queue.Close()
	contactService := contact.NewService(leadRepo, tasks.NewQueueNotifier(queue), logger)

	mail := mailer.NewMailer(cfg.MailersendAPIKey, cfg.MailerFromName, cfg.MailerFromEmail)
	worker := cron.StartLeadWorker(cfg, leadRepo, mail, logger)

	ctx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	probes := map[string]utils.Pinger{"mongo": database.Ping}
	if utils.AuthCacheClient != nil {
		probes["redis"] = func(ctx context.Context) error { return utils.AuthCacheClient.Ping(ctx).Err() }
	}
	utils.StartHealthMonitor(ctx, 30*time.Second, probes)

	// Create the Gin router.
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	adminRoles := cfg.AllowedAdminRoles()
	handlerBundle := &handlers.HandlerBundle{
		Auth:          handlers.NewAuthHandler(authService),
		Listings:      handlers.NewListingHandler(listingService, adminRoles),
		Bookings:      handlers.NewBookingHandler(listingService),
		Checkout:      handlers.NewCheckoutHandler(checkoutService),
		Storage:       handlers.NewStorageHandler(signer, uploader, cfg.CloudinaryUploadFolder),
		Contact:       handlers.NewContactHandler(contactService),
		Health:        handlers.NewHealthHandler(utils.GetHealthStatus),
		Authenticator: authService,
		AdminRoles:    adminRoles,
	}
	routes.RegisterRoutes(router, handlerBundle, cfg.SiteURL)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	utils.CloseCache()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
