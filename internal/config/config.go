package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr       string
	BackendBaseURL string
	BackendTimeout time.Duration
	RedisAddr      string
	KafkaBrokers   []string
	ServiceName    string

	VATRate          float64
	ShippingFlat     float64
	FreeShippingOver float64 // subtotal threshold, 0 disables free shipping
	PageSize         int
}

func Load() Config {
	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		BackendBaseURL: getenv("BACKEND_BASE_URL", "http://localhost:8000"),
		BackendTimeout: time.Duration(getint("BACKEND_TIMEOUT_SECONDS", 10)) * time.Second,
		RedisAddr:      getenv("REDIS_ADDR", "redis:6379"),
		KafkaBrokers:   splitCSV(getenv("KAFKA_BROKERS", "kafka:9092")),
		ServiceName:    getenv("SERVICE_NAME", "storefront"),

		VATRate:          getfloat("VAT_RATE", 0.22),
		ShippingFlat:     getfloat("SHIPPING_FLAT", 5.00),
		FreeShippingOver: getfloat("FREE_SHIPPING_OVER", 0),
		PageSize:         getint("PAGE_SIZE", 20),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
