package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/daxwell/orderdesk/internal/chatbot"
	"github.com/daxwell/orderdesk/internal/config"
	"github.com/daxwell/orderdesk/internal/kafka"
	"github.com/daxwell/orderdesk/internal/logger"
	"github.com/daxwell/orderdesk/internal/notifications"
	"github.com/daxwell/orderdesk/internal/server"
	"github.com/daxwell/orderdesk/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger := logger.New(cfg.LogLevel)
	defer func() { _ = zapLogger.Sync() }()

	backend := storage.NewFileStorage(cfg.OrdersFile)
	orderStore := storage.NewOrderStore(backend, zapLogger)
	notificationLog := notifications.NewLog(backend, zapLogger)
	bot := chatbot.NewClient(cfg.Chatbot, zapLogger)

	var producer kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewWriterProducer(cfg.Kafka.Brokers, zapLogger)
	} else {
		producer = kafka.NewConsoleProducer(zapLogger)
	}

	auditManager := server.NewAuditManager(producer, cfg.Kafka.AuditTopic, zapLogger, 2, 5, 500*time.Millisecond)
	srv := server.New(orderStore, notificationLog, bot, auditManager, zapLogger, cfg.CORSOrigins)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx, cfg.Port)
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("server exited with error", zap.Error(err))
	}
	zapLogger.Info("server gracefully stopped")
}
