package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"puja-backend/internal/auth"
	"puja-backend/internal/cache"
	"puja-backend/internal/config"
	"puja-backend/internal/database"
	"puja-backend/internal/db"
	"puja-backend/internal/gateway"
	"puja-backend/internal/handlers"
	"puja-backend/internal/health"
	apihttp "puja-backend/internal/http"
	"puja-backend/internal/middleware"
	"puja-backend/internal/monitoring"
	"puja-backend/internal/repositories"
	"puja-backend/internal/services"
	"puja-backend/internal/sms"
	"puja-backend/internal/storage"
	"puja-backend/internal/whatsapp"
	"puja-backend/migrations"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	migrator := database.NewMigrator(pool, migrations.FS, ".")
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("[Migrations] %v", err)
	}

	uploader, err := storage.NewUploader(cfg)
	if err != nil {
		log.Fatalf("[Storage] %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg)
	otpStore := cache.NewOTPStore()
	smsProvider := newSMSProvider()
	whatsappProvider := newWhatsAppProvider()
	cashfree := gateway.NewCashfreeClient(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	adminRepo := repositories.NewAdminRepository(pool)
	agentRepo := repositories.NewAgentRepository(pool)
	pujaRepo := repositories.NewPujaRepository(pool)
	bookingRepo := repositories.NewBookingRepository(pool)
	reviewRepo := repositories.NewReviewRepository(pool)
	couponRepo := repositories.NewCouponRepository(pool)
	templeRepo := repositories.NewTempleRepository(pool)
	carouselRepo := repositories.NewCarouselRepository(pool)
	feedbackRepo := repositories.NewFeedbackRepository(pool)

	// Services
	otpService := services.NewOTPService(otpStore, smsProvider, userRepo, jwtManager)
	userService := services.NewUserService(userRepo, jwtManager)
	adminService := services.NewAdminService(adminRepo, jwtManager)
	agentService := services.NewAgentService(agentRepo, jwtManager)
	pujaService := services.NewPujaService(pujaRepo)
	bookingService := services.NewBookingService(bookingRepo, pujaRepo, couponRepo, cashfree, whatsappProvider)
	couponService := services.NewCouponService(couponRepo)
	panchangService := services.NewPanchangService(cfg)
	dashboardService := services.NewDashboardService(userRepo, pujaRepo, bookingRepo, agentRepo)

	// Handlers
	userAuthHandler := handlers.NewUserAuthHandler(otpService, userService)
	adminHandler := handlers.NewAdminHandler(adminService)
	agentHandler := handlers.NewAgentHandler(agentService)
	pujaHandler := handlers.NewPujaHandler(pujaService, uploader)
	paymentHandler := handlers.NewPaymentHandler(bookingService, userService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	reviewHandler := handlers.NewReviewHandler(reviewRepo)
	couponHandler := handlers.NewCouponHandler(couponService, bookingService)
	templeHandler := handlers.NewTempleHandler(templeRepo, uploader)
	carouselHandler := handlers.NewCarouselHandler(carouselRepo, uploader)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, panchangService)
	healthHandler := handlers.NewHealthHandler(health.NewChecker(pool, otpStore))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo, adminRepo, agentRepo)

	dashboardFeed := monitoring.NewDashboardFeed(dashboardService)
	go dashboardFeed.Run(ctx)

	router := apihttp.NewRouter(
		userAuthHandler,
		adminHandler,
		agentHandler,
		pujaHandler,
		paymentHandler,
		bookingHandler,
		reviewHandler,
		couponHandler,
		templeHandler,
		carouselHandler,
		feedbackHandler,
		dashboardHandler,
		healthHandler,
		dashboardFeed,
		authMiddleware,
	)

	handler := middleware.NewCORS(cfg)(middleware.PanicRecovery(router))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("[Server] Listening on :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[Server] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Shutdown error: %v", err)
	}
}

// newSMSProvider picks Fast2SMS when credentials are present and the
// mock sender otherwise, so local development works without an account.
func newSMSProvider() sms.Provider {
	apiKey := os.Getenv("FAST2SMS_API_KEY")
	if apiKey == "" {
		log.Println("[SMS] FAST2SMS_API_KEY not set, using mock provider")
		return sms.NewMockSMSService()
	}
	return sms.NewFast2SMSService(apiKey, os.Getenv("FAST2SMS_TEMPLATE_ID"), os.Getenv("FAST2SMS_SENDER_ID"))
}

func newWhatsAppProvider() whatsapp.Provider {
	apiKey := os.Getenv("AISENSY_API_KEY")
	if apiKey == "" {
		log.Println("[WhatsApp] AISENSY_API_KEY not set, using mock provider")
		return whatsapp.NewMockService()
	}
	return whatsapp.NewAiSensyService(apiKey)
}
