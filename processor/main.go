// Command processor mails the reorder list on a schedule. With -once it
// sends a single report and exits.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"molding-inventory/config"
	"molding-inventory/database"
	"molding-inventory/logger"
	"molding-inventory/services"
)

func main() {
	once := flag.Bool("once", false, "send one report and exit")
	interval := flag.Duration("interval", 24*time.Hour, "time between reports")
	flag.Parse()

	cfg := config.LoadConfig()
	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.Open(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to connect to database", "error", err)
	}

	svc := services.New(db, services.PermissionGate{}, cfg, appLog)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLog.Info("Reorder processor running", "interval", interval.String(), "once", *once)
	if err := runReport(ctx, svc, appLog); err != nil && *once {
		appLog.Fatal("Reorder report failed", "error", err)
	}
	if *once {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			appLog.Info("Reorder processor stopped")
			return
		case <-ticker.C:
			_ = runReport(ctx, svc, appLog)
		}
	}
}

func runReport(ctx context.Context, svc *services.Services, log *logger.Logger) error {
	items, err := svc.Reorder.LowStock(ctx)
	if err != nil {
		log.Error("Failed to load reorder list", "error", err)
		return err
	}
	if err := svc.Notifier.Send(ctx, items); err != nil {
		log.Error("Failed to send reorder mail", "error", err)
		return err
	}
	return nil
}
