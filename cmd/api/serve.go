package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xavierca1/garage-leads/internal/config"
	"github.com/xavierca1/garage-leads/internal/infra/database"
	"github.com/xavierca1/garage-leads/internal/infra/http/handlers"
	"github.com/xavierca1/garage-leads/internal/infra/integration/twilio"
	"github.com/xavierca1/garage-leads/internal/infra/mail"
	"github.com/xavierca1/garage-leads/internal/infra/queue"
	"github.com/xavierca1/garage-leads/internal/offer"
	"github.com/xavierca1/garage-leads/internal/usecase"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if err := cfg.ValidateAdmin(); err != nil {
		return err
	}
	if cfg.Admin.Username == "" {
		log.Warn().Msg("⚠️ ADMIN_USERNAME not set, admin routes disabled")
	}

	catalog, err := offer.LoadFile(cfg.OfferCatalog)
	if err != nil {
		return fmt.Errorf("offer catalog: %w", err)
	}

	// 1. Banco
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	leadRepo := database.NewLeadRepository(db)
	upsellRepo := database.NewUpsellRepository(db)

	// 2. Canais de entrega
	var email usecase.EmailChannel
	switch cfg.EmailTransport {
	case "ses":
		sender, err := mail.NewSESSender(ctx, cfg.SES.Region, cfg.SES.AccessKey, cfg.SES.SecretKey, cfg.SES.From, cfg.Brand)
		if err != nil {
			return err
		}
		email = sender
	default:
		if cfg.SMTP.Host != "" {
			email = mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, cfg.Brand)
		} else {
			log.Warn().Msg("⚠️ SMTP_HOST not set, email coupons disabled")
		}
	}

	var sms usecase.SMSChannel
	twilioClient := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)
	if twilioClient.Configured() {
		sms = mail.NewSMSSender(twilioClient, cfg.Brand)
	} else {
		log.Warn().Msg("⚠️ Twilio not configured, SMS coupons disabled")
	}

	sendCouponUC := usecase.NewSendCouponUseCase(catalog, email, sms, leadRepo, cfg.BookingBaseURL)

	// 3. Fila (opcional)
	var couponQueue usecase.CouponQueue
	var broker handlers.BrokerStatus
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		couponQueue = queue.NewProducer(rabbitMQ.Ch)
		broker = rabbitMQ.Conn

		worker := queue.NewWorker(rabbitMQ.Ch, sendCouponUC)
		go func() {
			if err := worker.Start(ctx, queue.QueueName); err != nil {
				log.Error().Err(err).Msg("❌ coupon worker stopped")
			}
		}()
	}

	// 4. UseCases e handlers
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, catalog, couponQueue)
	authUC := usecase.NewAdminAuthUseCase(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	listLeadsUC := usecase.NewListLeadsUseCase(leadRepo, cfg.AdminLeadLimit)

	router := handlers.NewRouter(handlers.RouterConfig{
		Lead:             handlers.NewLeadHandler(createLeadUC, handlers.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)),
		Coupon:           handlers.NewCouponHandler(sendCouponUC),
		Upsell:           handlers.NewUpsellHandler(usecase.NewRecordUpsellUseCase(upsellRepo)),
		Admin:            handlers.NewAdminHandler(authUC, listLeadsUC),
		Health:           handlers.NewHealthHandler(db, broker, Version),
		Metrics:          promhttp.Handler(),
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		TrustedProxyHops: cfg.RateLimit.TrustedProxyHops,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("version", Version).Msg("🔥 Server rodando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
