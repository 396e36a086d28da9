package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freightdesk/config"
	"freightdesk/internal/database"
	"freightdesk/internal/logging"
	"freightdesk/internal/mailer"
	"freightdesk/internal/router"
	"freightdesk/internal/scheduler"
	"freightdesk/internal/service"
	"freightdesk/internal/ws"
	"freightdesk/pkg/cloudinary"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	database.SeedAdmin(db, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"))

	var mail mailer.Mailer
	if m := mailer.NewSMTPMailer(cfg.SMTP); m != nil {
		mail = m
		logger.Info("smtp mail enabled", zap.String("host", cfg.SMTP.Host))
	} else {
		logger.Warn("smtp not configured; transactional email disabled")
	}

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		logger.Warn("cloudinary not configured; document file upload disabled", zap.Error(err))
		cloud = nil
	}

	fcm := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcm != nil {
		logger.Info("fcm push enabled")
	}

	hub := ws.NewTrackingHub()
	scan := router.BuildDelayScan(db, mail, logger)

	sched := scheduler.New(logger)
	if err := sched.AddDelayScan(cfg.DelayScan.Schedule, scan); err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	engine := router.Setup(router.Deps{
		Cfg:   cfg,
		DB:    db,
		Log:   logger,
		Cloud: cloud,
		Mail:  mail,
		FCM:   fcm,
		Hub:   hub,
		Scan:  scan,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
