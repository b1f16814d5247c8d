package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/popvault/storefront/internal/backend"
	"github.com/popvault/storefront/internal/cart"
	"github.com/popvault/storefront/internal/checkout"
	"github.com/popvault/storefront/internal/config"
	"github.com/popvault/storefront/internal/events"
	"github.com/popvault/storefront/internal/httpx"
	kafkax "github.com/popvault/storefront/internal/kafka"
	"github.com/popvault/storefront/internal/redisx"
	"github.com/popvault/storefront/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Shop API
	api := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout)

	// Kafka producers, one per topic
	cartProd := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCartUpdated, 1024)
	cartProd.Start(ctx)
	orderProd := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderSubmitted, 1024)
	orderProd.Start(ctx)

	// Handler
	router := httpx.NewRouter()
	h := &httpx.Handler{
		Backend:  api,
		Carts:    cart.NewStore(rdb),
		Sessions: session.NewStore(rdb),
		Redis:    rdb,
		Builder: &checkout.Builder{
			API:          api,
			VATRate:      cfg.VATRate,
			ShippingFlat: cfg.ShippingFlat,
			FreeShipping: cfg.FreeShippingOver,
		},
		CartEvents:       cartProd,
		OrderEvents:      orderProd,
		VATRate:          cfg.VATRate,
		ShippingFlat:     cfg.ShippingFlat,
		FreeShippingOver: cfg.FreeShippingOver,
		PageSize:         cfg.PageSize,
		Service:          cfg.ServiceName,
	}
	h.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cartProd.Close() // close inbox -> flush & close writer
	orderProd.Close()
	cancel() // stop producer loops
	cartProd.WaitClosed()
	orderProd.WaitClosed()
}
