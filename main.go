package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "bmc-redfish/internal/api/http"
	"bmc-redfish/internal/audit"
	"bmc-redfish/internal/auth"
	"bmc-redfish/internal/config"
	"bmc-redfish/internal/observability/metrics"
	"bmc-redfish/internal/redfish"
	"bmc-redfish/internal/selarchive"
	"bmc-redfish/internal/snapshot"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)
	metrics.Init()

	var db *sql.DB
	if cfg.ArchiveDSN != "" {
		db, err = sql.Open("pgx", cfg.ArchiveDSN)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	}

	source, err := snapshot.NewFileSource(cfg.StateFile, cfg.SELFile, logger)
	if err != nil {
		logger.Fatalf("snapshot source error: %v", err)
	}

	projector := redfish.NewProjector(redfish.Identity{
		ServiceName:     cfg.Identity.ServiceName,
		ChassisName:     cfg.Identity.ChassisName,
		Manufacturer:    cfg.Identity.Manufacturer,
		Model:           cfg.Identity.Model,
		SerialNumber:    cfg.Identity.SerialNumber,
		FirmwareVersion: cfg.Identity.FirmwareVersion,
		UUID:            cfg.Identity.UUID,
		SELMaxRecords:   cfg.SELMaxRecords,
	}, logger)

	var auditor audit.Logger
	if repo := audit.NewRepository(db); repo != nil {
		auditor = repo
	}

	redfishHandler, err := apihttp.NewRedfishHandler(source, projector, auditor)
	if err != nil {
		logger.Fatalf("redfish handler error: %v", err)
	}
	exportHandler, err := apihttp.NewExportHandler(source, projector)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	if db != nil {
		archiver, err := selarchive.NewArchiver(source, selarchive.NewPostgresRepository(db), cfg.ArchiveInterval, logger)
		if err != nil {
			logger.Fatalf("sel archiver error: %v", err)
		}
		go archiver.Run(context.Background())
	}

	mux := http.NewServeMux()
	mux.Handle("/redfish/", redfishHandler)
	mux.Handle("/api/v1/exports/", exportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	handler := http.Handler(mux)
	if cfg.JWTSecret != "" {
		policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
		handler = auth.NewMiddleware([]byte(cfg.JWTSecret), policy).Wrap(handler)
	}

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(handler, logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
