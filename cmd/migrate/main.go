package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"gazecenter/adapters/postgres"
	"gazecenter/internal/migration"
)

// Applies the history schema. The database URL comes from the first argument
// or DATABASE_URL.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> (or set DATABASE_URL)")
	}

	runner := migration.NewRunner()
	db, err := postgres.Connect(context.Background(), databaseURL, runner.Run)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	defer db.Close()

	log.Printf("Schema is at version %s", runner.Version())
}
