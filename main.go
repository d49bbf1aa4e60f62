package main

import (
	"log"

	"molding-inventory/config"
	"molding-inventory/controllers/idgen"
	"molding-inventory/database"
	"molding-inventory/logger"
	"molding-inventory/migration"
	"molding-inventory/routes"
	"molding-inventory/services"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg := config.LoadConfig()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	if err := idgen.Init(cfg.SnowflakeNode); err != nil {
		appLog.Fatal("Failed to init snowflake", "node", cfg.SnowflakeNode, "error", err)
	}

	db, err := database.Open(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to connect to database", "driver", cfg.DBDriver, "error", err)
	}

	if err := migration.Migrate(db); err != nil {
		appLog.Fatal("Failed to auto migrate", "error", err)
	}
	if err := database.RunSeeders(db, appLog); err != nil {
		appLog.Fatal("Failed to seed database", "error", err)
	}

	gate := services.PermissionGate{}
	svc := services.New(db, gate, cfg, appLog)

	app := fiber.New(fiber.Config{
		AppName:   "molding-inventory",
		BodyLimit: 16 * 1024 * 1024,
	})
	config.SetupCORS(app, cfg)
	routes.Setup(app, cfg, db, svc, gate, appLog)

	appLog.Info("Server starting", "port", cfg.AppPort, "driver", cfg.DBDriver)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		appLog.Fatal("Server stopped", "error", err)
	}
}
