// Command migrate applies the embedded MySQL schema migrations in
// lexical order. Statements are idempotent (CREATE TABLE IF NOT
// EXISTS), so re-running is safe.
package main

import (
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/consolehq/auth-service/internal/config"
	"github.com/consolehq/auth-service/internal/database"
	"github.com/consolehq/auth-service/internal/logger"
	migrations "github.com/consolehq/auth-service/migrations/mysql"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)
	defer func() { _ = logger.Sync() }()
	log := logger.Named("migrate")

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		log.Fatal("read migrations failed", zap.Error(err))
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := migrations.FS.ReadFile(name)
		if err != nil {
			log.Fatal("read migration failed", zap.String("file", name), zap.Error(err))
		}
		for _, stmt := range strings.Split(string(raw), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := db.Exec(stmt); err != nil {
				log.Fatal("migration statement failed", zap.String("file", name), zap.Error(err))
			}
		}
		log.Info("applied", zap.String("file", name))
	}
	log.Info("migrations complete", zap.Int("files", len(names)))
}
