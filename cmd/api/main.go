package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/autoseller/internal/config"
	"github.com/xavierca1/autoseller/internal/infra/database"
	"github.com/xavierca1/autoseller/internal/infra/http/handlers"
	"github.com/xavierca1/autoseller/internal/infra/integration/evolution"
	"github.com/xavierca1/autoseller/internal/infra/integration/gemini"
	"github.com/xavierca1/autoseller/internal/infra/mail"
	"github.com/xavierca1/autoseller/internal/infra/queue"
	"github.com/xavierca1/autoseller/internal/infra/worker"
	"github.com/xavierca1/autoseller/internal/logger"
	"github.com/xavierca1/autoseller/internal/usecase"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("❌ Erro ao conectar no banco")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("❌ Erro ao aplicar schema")
	}

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	messageRepo := database.NewMessageRepository(db)
	flowRepo := database.NewFlowRepository(db)
	settingsRepo := database.NewSettingsRepository(db)
	accountRepo := database.NewAccountRepository(db)
	sessionRepo := database.NewSessionRepository(db)

	// 2. Integrações
	var emailService usecase.EmailService
	if cfg.MailEnabled() {
		emailService = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	} else {
		log.Warn("⚠️ MAIL_HOST vazio: emails desativados")
	}

	var generator usecase.ReplyGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.WithError(err).Fatal("❌ Erro ao iniciar Gemini")
		}
		defer geminiClient.Close()
		generator = geminiClient
	} else {
		log.Warn("⚠️ GEMINI_API_KEY vazio: respostas usarão o texto padrão")
	}

	gateway := evolution.NewClient(cfg.GatewayRPS, log)

	// 3. UseCases
	settingsService := usecase.NewSettingsService(settingsRepo, accountRepo, emailService, log)
	sender := usecase.NewMessageSender(gateway, settingsService, log)
	executor := usecase.NewFlowExecutor(leadRepo, flowRepo, messageRepo, settingsService, sender, log)

	// 4. Fila de fluxos (RabbitMQ opcional)
	var (
		dispatcher usecase.FlowDispatcher
		rabbitConn *amqp091.Connection
		inProcess  *queue.InProcessDispatcher
	)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL, cfg.FlowWorkers)
		if err != nil {
			log.WithError(err).Fatal("❌ Erro ao conectar no RabbitMQ")
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn

		dispatcher = queue.NewProducer(rabbitMQ.Ch)
		flowWorker := queue.NewWorker(rabbitMQ.Ch, executor, cfg.FlowWorkers, log)
		go func() {
			if err := flowWorker.Start(ctx, queue.QueueName); err != nil {
				log.WithError(err).Error("❌ Worker de fluxos parou")
			}
		}()
	} else {
		log.Warn("⚠️ RABBITMQ_URL vazio: fluxos rodarão em processo")
		inProcess = queue.NewInProcessDispatcher(ctx, executor, log)
		dispatcher = inProcess
	}

	engine := usecase.NewFunnelEngine(leadRepo, messageRepo, flowRepo, settingsService, generator, sender, dispatcher, log)
	leadService := usecase.NewLeadService(leadRepo, messageRepo, engine, log)
	flowService := usecase.NewFlowService(flowRepo, log)
	statsService := usecase.NewStatsService(leadRepo)
	authService := usecase.NewAuthService(accountRepo, sessionRepo, settingsService, emailService, cfg.SessionTTL, cfg.DashboardURL, log)
	gatewayService := usecase.NewGatewayConnectionService(gateway, settingsService, log)

	// 5. Workers
	webhookLimiter := handlers.NewRateLimiter(20, 40)
	statusWorker := worker.NewConnectionStatusWorker(gatewayService, cfg.StatusPollInterval, log, webhookLimiter)
	go statusWorker.Start(ctx)

	// 6. Handlers e rotas
	router := &handlers.Router{
		Health:        handlers.NewHealthHandler(db, rabbitConn, generator != nil),
		Auth:          handlers.NewAuthHandler(authService, log),
		Webhook:       handlers.NewWebhookHandler(engine, accountRepo, webhookLimiter, cfg.WebhookSecret, log),
		Leads:         handlers.NewLeadHandler(leadService, log),
		Flows:         handlers.NewFlowHandler(flowService, log),
		Settings:      handlers.NewSettingsHandler(settingsService, cfg.PublicURL, log),
		Simulator:     handlers.NewSimulatorHandler(engine, log),
		Stats:         handlers.NewStatsHandler(statsService, log),
		Gateway:       handlers.NewGatewayHandler(gatewayService, log),
		Authenticator: authService,
		CORSOrigins:   cfg.CORSOrigins,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("🔥 Server AutoSeller rodando na porta %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("❌ Erro no servidor HTTP")
		}
	}()

	<-ctx.Done()
	log.Info("⚠️ Encerrando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("❌ Erro ao encerrar servidor")
	}
	if inProcess != nil {
		inProcess.Wait()
	}
}
