package main

import (
	"log"

	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-job-board/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}
	defer repo.Close()

	if err := newRootCmd(repo).Execute(); err != nil {
		log.Fatal(err)
	}
}
