// cmd/tools/roster-export/main.go
//
// Writes a client's case roster to an .xlsx file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"housing-intake/internal/common/config"
	"housing-intake/internal/common/database"
	"housing-intake/internal/common/logger"
	"housing-intake/internal/export"
	"housing-intake/internal/repository"
)

func main() {
	clientID := flag.String("client", "", "client id to export")
	output := flag.String("out", "cases.xlsx", "output file path")
	flag.Parse()

	if *clientID == "" {
		fmt.Fprintln(os.Stderr, "usage: roster-export -client <client-id> [-out cases.xlsx]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()

	svc := export.NewService(repository.NewCaseRepository(pg.DB, log), log)
	data, err := svc.CaseRosterXLSX(context.Background(), *clientID)
	if err != nil {
		zapLog.Fatal("export failed", zap.Error(err))
	}

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		zapLog.Fatal("write failed", zap.Error(err))
	}
	zapLog.Info("roster written", zap.String("path", *output))
}
