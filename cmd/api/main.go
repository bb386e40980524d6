package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/shukketsu-app/backend-go/internal/config"
	appHTTP "github.com/shukketsu-app/backend-go/internal/handler/http"
	"github.com/shukketsu-app/backend-go/internal/pkg/cache"
	"github.com/shukketsu-app/backend-go/internal/pkg/database"
	"github.com/shukketsu-app/backend-go/internal/pkg/jwt"
	"github.com/shukketsu-app/backend-go/internal/repository/postgresql"
	approvalService "github.com/shukketsu-app/backend-go/internal/service/approval"
	attendanceService "github.com/shukketsu-app/backend-go/internal/service/attendance"
	notificationService "github.com/shukketsu-app/backend-go/internal/service/notification"
	organizationService "github.com/shukketsu-app/backend-go/internal/service/organization"
	scheduleService "github.com/shukketsu-app/backend-go/internal/service/schedule"
	securityService "github.com/shukketsu-app/backend-go/internal/service/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLogLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shukketsu"),
		slog.String("env", cfg.App.Env),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("database connection failed", slog.Any("error", err))
		return
	}
	defer db.Close()

	redis := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if !redis.Healthy(context.Background()) {
		logger.Warn("redis unreachable, policy cache disabled", slog.String("addr", cfg.Redis.Addr))
	}

	policyRepo := postgresql.NewPolicyRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	sessionRepo := postgresql.NewClassSessionRepository(db)
	timeSlotRepo := postgresql.NewTimeSlotRepository(db)
	qrCodeRepo := postgresql.NewQRCodeRepository(db)
	requestRepo := postgresql.NewAbsenceRequestRepository(db)
	decisionRepo := postgresql.NewDecisionRepository(db)
	ipRangeRepo := postgresql.NewIPRangeRepository(db)
	scanLogRepo := postgresql.NewScanLogRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	queryTimeout := cfg.Database.QueryTimeout

	dispatcher := notificationService.NewLogDispatcher(logger)
	gate := securityService.NewGate(ipRangeRepo, scanLogRepo, logger, queryTimeout)
	policyResolver := organizationService.NewPolicyResolver(policyRepo, redis, cfg.Redis.PolicyTTL, logger, queryTimeout)
	timeSlotSvc := scheduleService.NewTimeSlotService(timeSlotRepo, sessionRepo, queryTimeout)
	scanSvc := attendanceService.NewScanService(
		ledgerRepo, sessionRepo, timeSlotRepo, qrCodeRepo,
		policyResolver, gate, logger, time.Now, queryTimeout,
	)
	approvalSvc := approvalService.NewService(
		db, requestRepo, decisionRepo, ledgerRepo, sessionRepo,
		dispatcher, logger, queryTimeout,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(scanSvc)
	approvalHandler := appHTTP.NewApprovalHandler(approvalSvc)
	organizationHandler := appHTTP.NewOrganizationHandler(policyResolver, timeSlotSvc)
	securityHandler := appHTTP.NewSecurityHandler(gate)

	router := appHTTP.NewRouter(
		logger,
		cfg.App.FrontendURL,
		jwtService,
		attendanceHandler,
		approvalHandler,
		organizationHandler,
		securityHandler,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("server listening", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
