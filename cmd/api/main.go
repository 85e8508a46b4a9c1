package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/giw-app/giw/internal/app"
	"github.com/giw-app/giw/internal/automation"
	"github.com/giw-app/giw/internal/version"
	"github.com/giw-app/giw/internal/worker"

	"github.com/robfig/cron/v3"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	showVersion := flag.Bool("version", false, "display version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	application, err := app.NewApplication(logger)
	if err != nil {
		return err
	}
	defer application.DB.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settlementWorker := worker.New(&worker.Worker{
		KafkaStream: application.Kafka,
		DB:          application.DB,
		Logger:      logger,
		Ctx:         ctx,
	})
	go settlementWorker.ConfirmedTransferWorker()
	go settlementWorker.FailedTransferWorker()

	automationService := automation.New(
		application.DB.Automation(),
		application.DB.Wallet(),
		application.DB.Transaction(),
		application.Circle,
		logger,
	)
	notifier := automation.NewNotifier(
		application.DB.Automation(),
		application.DB.User(),
		application.Mailer,
		application.Helper,
		logger,
	)

	scheduler := cron.New()
	_, err = scheduler.AddFunc("@every 1m", func() {
		results := automationService.ProcessDueAutomations(ctx)
		notifier.NotifyPaused(results)
	})
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	return application.ServeHTTP()
}
