package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"normscope/adapters/excel"
	"normscope/adapters/stats"
	"normscope/internal/config"
	"normscope/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	bands, err := config.LoadBands(appConfig.Bands.File)
	if err != nil {
		log.Fatalf("Failed to load band table: %v", err)
	}

	engine, err := stats.NewEngine(bands)
	if err != nil {
		log.Fatalf("Failed to initialize statistics engine: %v", err)
	}

	// Load the dataset once at startup; a load failure is fatal.
	loader := excel.NewLoader(appConfig.Data.Sheet, appConfig.Data.Schema)
	table, err := loader.Load(context.Background(), appConfig.Data.File)
	if err != nil {
		log.Fatalf("Failed to load dataset %s: %v", appConfig.Data.File, err)
	}

	app, err := ui.NewApp(ui.Config{
		Port:   appConfig.Server.Port,
		Filter: appConfig.DefaultFilter(),
	}, table, engine)
	if err != nil {
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}

	log.Fatal(app.Start(appConfig.Server.Port))
}
