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

	"github.com/WideDream/sto-mana/config"
	"github.com/WideDream/sto-mana/controllers"
	"github.com/WideDream/sto-mana/routes"
	"github.com/WideDream/sto-mana/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = uuid.NewString()
		log.Warn("JWT_SECRET not set, using a random secret for this process")
	}

	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	ctx := context.Background()
	schema := services.NewSchemaService(db, log)
	if err := schema.EnsureSchema(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Password); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	customers := services.NewCustomerService(db)
	ledger := services.NewLedgerService(db, customers)
	reports := services.NewReportService(db)
	products := services.NewProductService(db)
	exports := services.NewExportService(ledger)

	var sender services.MessageSender
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		sender = services.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber)
	} else {
		log.Info("twilio not configured, reminders will be logged as skipped")
	}
	reminders := services.NewReminderService(db, reports, sender, cfg.Reminder.Template, log)
	if cfg.Reminder.Enabled {
		if err := reminders.StartScheduler(cfg.Reminder.Schedule); err != nil {
			return err
		}
		defer reminders.Stop()
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := routes.SetupRouter(cfg, log, routes.Controllers{
		Auth:      controllers.NewAuthController(db, cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.Server.IsProduction()),
		Records:   controllers.NewRecordController(ledger),
		Customers: controllers.NewCustomerController(customers),
		Products:  controllers.NewProductController(products),
		Reports:   controllers.NewReportController(reports),
		Dashboard: controllers.NewDashboardController(ledger, customers, reports),
		Export:    controllers.NewExportController(exports),
		Reminders: controllers.NewReminderController(reminders),
	})
	printRoutes(log, r)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printRoutes(log *zap.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		log.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
