package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/thereayou/roomboard/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := NewServer(config.Load())
	defer s.Close()

	if err := s.Run(ctx); err != nil {
		log.Printf("Server run error: %v", err)
	}
}
