package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/docparse/dbopen"
	"github.com/hazyhaar/docparse/docparse"
	"github.com/hazyhaar/docparse/docsvc"
	"github.com/hazyhaar/docparse/idgen"
	"github.com/hazyhaar/docparse/observability"
)

func main() {
	cfgPath := "docparse.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := docsvc.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// --- Observability DB (separate from any app data to avoid write contention) ---
	obsDBPath := filepath.Join(filepath.Dir(cfg.DBPath), "observability.db")
	obsDB, err := dbopen.Open(obsDBPath,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(observability.Schema),
	)
	if err != nil {
		log.Fatalf("observability db: %v", err)
	}
	defer obsDB.Close()

	// --- Observability components ---
	metrics := observability.NewMetricsManager(obsDB, 100, 5*time.Second)
	defer metrics.Close()
	events := observability.NewEventLogger(obsDB,
		observability.WithEventIDGenerator(idgen.Prefixed("evt_", idgen.Default)),
	)

	// --- Parser + service ---
	parser := docparse.New(docparse.Config{
		MaxFileSize: cfg.MaxFileBytes(),
		Logger:      logger,
	})
	svc := docsvc.New(cfg, parser,
		docsvc.WithLogger(logger),
		docsvc.WithEvents(events),
		docsvc.WithMetrics(metrics),
	)

	log.Printf("docparsed listening on %s", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, svc.Router()); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
