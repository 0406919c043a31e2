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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/utiligas/casedesk/internal/repository"
	"github.com/utiligas/casedesk/internal/router"
	"github.com/utiligas/casedesk/internal/schema"
	"github.com/utiligas/casedesk/internal/service"
	"github.com/utiligas/casedesk/pkg/backup"
	"github.com/utiligas/casedesk/pkg/config"
	"github.com/utiligas/casedesk/pkg/database"
	"github.com/utiligas/casedesk/pkg/export"
	"github.com/utiligas/casedesk/pkg/logger"
	"github.com/utiligas/casedesk/pkg/settings"
	"github.com/utiligas/casedesk/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()

	// Snapshot before touching the store, so a failed migration never costs
	// the previous state.
	rotator, err := backup.NewRotator(cfg.Store.Path, cfg.Backup.Dir, cfg.Backup.Keep)
	if err != nil {
		logr.Sugar().Fatalw("backup setup failed", "error", err)
	}
	if snapshot, err := rotator.Rotate(); err != nil {
		logr.Sugar().Warnw("startup backup failed", "error", err)
	} else if snapshot != "" {
		metrics.BackupTaken()
		logr.Sugar().Infow("startup backup taken", "snapshot", snapshot)
	}

	db, err := database.NewSQLite(cfg.Store)
	if err != nil {
		logr.Sugar().Fatalw("store open failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	manager := schema.NewManager(db, logr)
	if err := manager.EnsureSchema(ctx); err != nil {
		logr.Sugar().Fatalw("schema setup failed", "error", err)
	}
	if err := manager.Migrate(ctx); err != nil {
		logr.Sugar().Fatalw("store migration failed", "error", err)
	}
	if err := manager.EnsureSeedData(ctx); err != nil {
		logr.Sugar().Fatalw("seed data failed", "error", err)
	}

	validate := validator.New()

	caseRepo := repository.NewCaseRepository(db)
	correspondenceRepo := repository.NewCorrespondenceRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	settingsStore := settings.NewStore(cfg.Attachments.SettingsFile)
	exportDir, err := storage.NewExportDir(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("reports directory setup failed", "error", err)
	}

	caseSvc := service.NewCaseService(caseRepo, validate, logr, metrics)
	correspondenceSvc := service.NewCorrespondenceService(correspondenceRepo, validate, logr)
	attachmentSvc := service.NewAttachmentService(attachmentRepo, settingsStore, cfg.Attachments.DefaultDir, validate, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, service.SessionConfig{
		Secret:     cfg.Session.Secret,
		Expiration: cfg.Session.Expiration,
	}, validate, logr)
	auditSvc := service.NewAuditService(auditRepo, employeeRepo, logr)
	exportSvc := service.NewExportService(caseRepo, exportDir, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	if cfg.Backup.Interval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Backup.Interval)
			defer ticker.Stop()
			for range ticker.C {
				if snapshot, err := rotator.Rotate(); err != nil {
					logr.Sugar().Warnw("periodic backup failed", "error", err)
				} else if snapshot != "" {
					metrics.BackupTaken()
					logr.Sugar().Infow("periodic backup taken", "snapshot", snapshot)
				}
			}
		}()
	}

	engine := router.New(router.Deps{
		Logger:          logr,
		Cases:           caseSvc,
		Correspondences: correspondenceSvc,
		Attachments:     attachmentSvc,
		Employees:       employeeSvc,
		Audit:           auditSvc,
		Exports:         exportSvc,
		Metrics:         metrics,
		Categories:      categoryRepo,
		Settings:        settingsStore,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: engine}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("shutdown incomplete", "error", err)
	}

	// Final snapshot so the backup set always includes the closing state.
	if snapshot, err := rotator.Rotate(); err != nil {
		logr.Sugar().Warnw("shutdown backup failed", "error", err)
	} else if snapshot != "" {
		metrics.BackupTaken()
		logr.Sugar().Infow("shutdown backup taken", "snapshot", snapshot)
	}
}
