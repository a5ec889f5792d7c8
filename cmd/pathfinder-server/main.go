package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pathfinder/internal/boardfile"
	"pathfinder/internal/config"
	"pathfinder/internal/server"
)

func main() {
	cfg, err := config.FromArgs("pathfinder-server", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	log.Println("========================================")
	log.Println("Pathfinder session server")
	log.Println("========================================")

	doc := boardfile.ProblemBoard()
	if cfg.BoardFile != "" {
		doc, err = boardfile.Load(cfg.BoardFile)
		if err != nil {
			log.Fatalf("failed to load default board: %v", err)
		}
		log.Printf("Default board loaded from %s\n", cfg.BoardFile)
	} else {
		log.Println("No board file given, using the built-in problem board")
	}
	if _, err := doc.Board(); err != nil {
		log.Fatalf("default board is invalid: %v", err)
	}
	log.Printf("   Obstacles: %d (%d vertices)\n", len(doc.Obstacles), doc.VertexCount())
	log.Printf("   Default search: %s, %s heuristic\n", cfg.Strategy, cfg.Heuristic)
	log.Printf("   CORS origin: %s\n", cfg.CORSOrigin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	if err := server.New(cfg, doc).ListenAndServe(ctx); err != nil {
		log.Fatal(err)
	}
}
