package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/popvault/storefront/internal/backend"
	"github.com/popvault/storefront/internal/config"
	"github.com/popvault/storefront/internal/events"
	kafkax "github.com/popvault/storefront/internal/kafka"
	"github.com/popvault/storefront/internal/ordercache"
	"github.com/popvault/storefront/internal/redisx"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &ordercache.Service{
		Backend:     backend.New(cfg.BackendBaseURL, cfg.BackendTimeout),
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-ordercache",
	}

	// Consumer
	group := getenv("ORDERCACHE_GROUP", "ordercache-svc")
	workers := mustAtoi(os.Getenv("ORDERCACHE_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, events.TopicOrderSubmitted, workers)

	go func() {
		log.Printf("ordercache consumer started: group=%s topic=%s workers=%d", group, events.TopicOrderSubmitted, workers)
		if err := cons.Start(ctx, svc.HandleOrderSubmitted); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
