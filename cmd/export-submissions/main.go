package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"muafin_web_go/config"
	"muafin_web_go/db"
	"muafin_web_go/services"
)

func main() {
	days := flag.Int("days", 30, "export attempts from the last N days")
	out := flag.String("out", "", "output file (default submissions-YYYYMMDD.xlsx)")
	flag.Parse()

	cfg := config.Load()
	if !cfg.SubmissionLogEnabled() {
		log.Fatal("DB_PATH or TURSO_DATABASE_URL must be set to export submission attempts")
	}

	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	since := time.Now().AddDate(0, 0, -*days)
	attempts, err := services.ListSubmissionAttempts(db.DB, since)
	if err != nil {
		log.Fatalf("Failed to load submission attempts: %v", err)
	}

	buf, err := services.ExportSubmissionAttempts(attempts)
	if err != nil {
		log.Fatalf("Failed to build export: %v", err)
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("submissions-%s.xlsx", time.Now().Format("20060102"))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}

	fmt.Printf("Exported %d submission attempts to %s\n", len(attempts), path)
}
