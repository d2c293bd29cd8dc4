// @title TEDP Survey API
// @version 2.0
// @description Backend for administering school surveys: staff open passations and hand out access codes, respondents take the paginated survey anonymously.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"tedp_backend/internal/app"
	"tedp_backend/internal/config"
	"tedp_backend/pkg/configwatcher"
	"tedp_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migration and exit")
	migrate := flag.Bool("migrate", false, "force database migration on startup")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration completed, exiting")
		return
	}

	// JWT is the only section read per request; CORS and rate limits are
	// copied at middleware construction and need a restart to change.
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		cfg.SetJWT(newCfg.JWT)
	})

	application.Run()
}
