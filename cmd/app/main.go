package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airbooking-desk/api"
	"github.com/Domenick1991/airbooking-desk/config"
	"github.com/Domenick1991/airbooking-desk/internal/bootstrap"
	"github.com/Domenick1991/airbooking-desk/internal/cache"
	"github.com/Domenick1991/airbooking-desk/internal/flightapi"
	"github.com/Domenick1991/airbooking-desk/internal/kafka"
	"github.com/Domenick1991/airbooking-desk/internal/notify"
	"github.com/Domenick1991/airbooking-desk/internal/service/booking"
	"github.com/Domenick1991/airbooking-desk/internal/service/flights"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queueOpts := []notify.Option{
		notify.WithDwell(cfg.Notifications.Dwell()),
		notify.WithGrace(cfg.Notifications.Grace()),
	}
	flightOpts := []flights.FlightServiceOption{
		flights.WithFallbackCities(cfg.Cities.Fallback),
	}
	var bookingOpts []booking.BookingServiceOption

	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cities.CacheTTL())
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			log.Printf("WARNING: redis at %s unreachable, cities will not be cached: %v", cfg.Redis.Addr, err)
		} else {
			flightOpts = append(flightOpts, flights.WithCityCache(redisCache))
		}
		cancel()
	}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()

		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := producer.CheckConnection(checkCtx); err != nil {
			log.Printf("WARNING: %v; events will be retried per message", err)
		}
		cancel()

		queueOpts = append(queueOpts, notify.WithPublisher(producer, cfg.Kafka.NotificationsTopic))
		bookingOpts = append(bookingOpts, booking.WithEventProducer(producer, cfg.Kafka.BookingTopic))
	}

	queue := notify.NewQueue(queueOpts...)
	defer queue.Close()

	client := flightapi.NewClient(cfg.FlightAPI)
	flightService := flights.NewFlightService(client, queue, flightOpts...)
	bookingService := booking.NewBookingService(client, queue, bookingOpts...)

	router := api.NewRouter(flightService, bookingService, queue)

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
