// README: Entry point; loads config, wires the assistant pipeline, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fetii/internal/ai"
	"fetii/internal/config"
	"fetii/internal/history"
	httptransport "fetii/internal/http"
	"fetii/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var provider ai.AnswerProvider
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		provider = gemini
	} else {
		log.Print("GEMINI_API_KEY not set; answers fall back to computed statistics")
	}

	assistant := service.NewAssistant(provider)
	if cfg.Dataset.File != "" {
		summary, err := assistant.LoadWorkbook(cfg.Dataset.File)
		if err != nil {
			log.Fatalf("load dataset %s: %v", cfg.Dataset.File, err)
		}
		log.Printf("loaded dataset %s: %d trips, %d destinations",
			cfg.Dataset.File, summary.TotalTrips, summary.UniqueDestinations)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Fatalf("history init: %v", err)
	}
	defer store.Close()

	handler := httptransport.NewRouter(httptransport.NewHandler(assistant, store))
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
