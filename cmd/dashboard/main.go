package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiconfig "investor_dashboard/pkg/api/config"
	"investor_dashboard/pkg/api/dashboard"
	"investor_dashboard/pkg/api/financials"
	"investor_dashboard/pkg/core/config"
	"investor_dashboard/pkg/core/content"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/pipeline"
	"investor_dashboard/pkg/core/store"
	"investor_dashboard/pkg/core/workbook"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the dashboard settings file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	deck, err := content.Load(cfg.ContentPath)
	if err != nil {
		fmt.Printf("[FATAL] Failed to load deck content: %v\n", err)
		os.Exit(1)
	}

	reader, err := workbook.ReaderByName(cfg.Reader)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	orch := pipeline.NewOrchestrator(workbook.NewLoader(reader))

	sessions := store.NewSessionStore(orch, cfg.SessionTTL)
	doc, err := pipeline.ReadDocument(cfg.WorkbookPath)
	if err != nil {
		fmt.Printf("[WARNING] Default workbook unreadable: %v\n", err)
	}
	if doc == nil {
		fmt.Printf("[WORKBOOK] %s not found, financial sections will ask for an upload\n", cfg.WorkbookPath)
	} else {
		fmt.Printf("[WORKBOOK] Default document %s (%d bytes)\n", doc.Name, len(doc.Data))
	}
	sessions.SetDefaultDocument(doc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	sessions.StartJanitor(ctx, time.Minute)

	mux := http.NewServeMux()

	pages := dashboard.NewHandler(deck, sessions, content.NewAssets(cfg.AssetsDir), cfg.MaxUploadBytes())
	pages.EchartsAssets = cfg.EchartsAssetsHost
	pages.Register(mux)

	financials.NewHandler(deck, sessions, orch, cfg.MaxUploadBytes()).Register(mux)
	apiconfig.NewHandler(cfg, orch, sessions).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Dashboard starting on %s (reader: %s, sections: %d)...\n", cfg.Addr, cfg.Reader, len(deck.Sections))
	fmt.Println("  - GET  /section/{id}")
	fmt.Println("  - POST /upload")
	fmt.Println("  - GET  /charts/{series}[.png]")
	fmt.Println("  - GET  /api/financials")
	fmt.Println("  - POST /api/financials")
	fmt.Println("  - GET  /api/financials/export.toon")
	fmt.Println("  - GET  /api/sections")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/reader")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Dashboard stopped.")
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Logf("[HTTP] %s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}
