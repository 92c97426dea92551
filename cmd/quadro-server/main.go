package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/rverdone/quadro/internal/server"
)

func main() {
	port := getEnv("PORT", "8787")
	dbPath := getEnv("DB_PATH", "data/quadro.db")
	snapshotPath := getEnv("SNAPSHOT_PATH", "data/dashboard.sqlite")
	apiToken := getEnv("API_TOKEN", "")

	if apiToken == "" {
		log.Fatal("API_TOKEN environment variable is required")
	}

	database, err := server.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	srv := server.New(database, apiToken, snapshotPath)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Database: %s", dbPath)
	log.Printf("Snapshot: %s", snapshotPath)

	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
