package main

import (
	"context"
	"log"
	"os"

	"crm-backend/internal/auth"
	"crm-backend/internal/churn"
	"crm-backend/internal/config"
	"crm-backend/internal/control"
	"crm-backend/internal/database"
	"crm-backend/internal/handlers"
	"crm-backend/internal/search"
	"crm-backend/internal/uploads"
	"crm-backend/internal/whatsapp"
)

func main() {
	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/crm.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
		appConfig.ApplyEnv()
	}

	gormDB, err := database.Open(appConfig.Database, appConfig.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer gormDB.Close()

	// Initialize schema with GORM AutoMigrate
	if err := gormDB.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	controlService := control.NewService(gormDB.DB())
	ctx := context.Background()
	if _, err := controlService.GetOrCreateVariables(ctx); err != nil {
		log.Printf("Warning: Failed to create control variables: %v", err)
	}
	if err := controlService.SeedFrequenciesIfNeeded(ctx); err != nil {
		log.Printf("Warning: Failed to seed control frequencies: %v", err)
	}

	uploadStore, err := uploads.NewStore(appConfig.Uploads.Dir, appConfig.Uploads.MaxSizeBytes)
	if err != nil {
		log.Fatalf("Failed to prepare uploads: %v", err)
	}

	relay := whatsapp.NewClient(appConfig.WhatsApp)
	if !relay.Configured() {
		log.Println("Warning: WHATSAPP_TOKEN or PHONE_NUMBER_ID not set, /whatsapp/send will fail")
	}

	deps := handlers.Dependencies{
		DB:          gormDB,
		Control:     controlService,
		Churn:       churn.NewService(gormDB, controlService, gormDB),
		Auth:        auth.NewManager(appConfig.Auth),
		Sender:      relay,
		Uploads:     uploadStore,
		CORSOrigins: appConfig.Server.CORSOrigins,
	}

	// Meilisearch is optional
	if msCfg := appConfig.Search.Meilisearch; msCfg.Enabled() {
		searchClient := search.NewSearchClient(msCfg.Host, msCfg.APIKey, msCfg.Index)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		} else {
			deps.Index = searchClient
			reindexClients(ctx, gormDB, searchClient)
		}
	}

	r := handlers.SetupRouter(deps)

	port := appConfig.Server.Port
	log.Printf("Server starting on port %s (db=%s)", port, appConfig.Database.Type)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func reindexClients(ctx context.Context, db *database.GormDB, searchClient *search.SearchClient) {
	clients, err := db.ListClients(ctx)
	if err != nil {
		log.Printf("Warning: Failed to load clients for indexing: %v", err)
		return
	}
	if err := searchClient.IndexClients(clients); err != nil {
		log.Printf("Warning: Failed to index clients: %v", err)
		return
	}
	log.Printf("[search] indexed %d clients", len(clients))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
