package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"silk/silk/config"
	"silk/silk/controllers"
	"silk/silk/routes"
	"silk/silk/services/gateway"
	"silk/silk/services/intent"
	"silk/silk/sources/psql"
	"silk/silk/sources/psql/dao"
	"silk/silk/sources/storage"
	"silk/silk/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	convDAO := dao.NewConversationDAO(db.DB)
	msgDAO := dao.NewChatMessageDAO(db.DB)
	profileDAO := dao.NewCustomerProfileDAO(db.DB)

	rules, err := intent.LoadRuleset(cfg.IntentRulesPath)
	if err != nil {
		logging.ErrorLogger.Error("intent rules error", zap.Error(err))
		os.Exit(1)
	}

	// letter archive is optional: without object storage the letters are
	// still returned to the caller, just not retained
	var letters controllers.LetterStore
	if minioClient, err := storage.NewMinIOClient(cfg); err != nil {
		logging.ErrorLogger.Error("minio connection error, letter archive disabled", zap.Error(err))
	} else {
		letters = minioClient
	}

	gatewayClient := gateway.NewClient(cfg, rules)

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	agentCtrl := controllers.NewAgentController(gatewayClient, msgDAO)
	convCtrl := controllers.NewConversationController(convDAO, msgDAO)
	loanCtrl := controllers.NewLoanController()
	sanctionCtrl := controllers.NewSanctionController(convDAO, profileDAO, letters, cfg.RenderPDF)
	insightsCtrl := controllers.NewInsightsController(profileDAO)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// the agent mount carries long-lived event streams, so it stays
	// outside the request timeout applied to everything else
	r.Mount("/agent", routes.AgentRoutes(agentCtrl, cfg))
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(60 * time.Second))
		gr.Mount("/auth", routes.AuthRoutes(authCtrl))
		gr.Mount("/conversations", routes.ConversationRoutes(convCtrl, cfg))
		gr.Mount("/loan", routes.LoanRoutes(loanCtrl, cfg))
		gr.Mount("/sanction", routes.SanctionRoutes(sanctionCtrl, cfg))
		gr.Mount("/insights", routes.InsightsRoutes(insightsCtrl, cfg))
		gr.Mount("/health", routes.HealthRoutes(controllers.NewHealthController()))
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
