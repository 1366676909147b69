package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airbooking-desk/config"
	"github.com/Domenick1991/airbooking-desk/internal/email"
	"github.com/Domenick1991/airbooking-desk/internal/kafka"
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
	if !cfg.Kafka.Enabled() {
		log.Fatalf("worker needs kafka.brokers or KAFKA_BROKERS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	handler := kafka.BookingEventHandler(func(ctx context.Context, event kafka.BookingEvent) error {
		if err := emailSender.Send(ctx, event); err != nil {
			log.Printf("send confirmation for booking %s: %v", event.BookingID, err)
		}
		return nil
	})

	log.Printf("worker consuming %s as %s", cfg.Kafka.BookingTopic, cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, handler); err != nil {
		log.Printf("consumer stopped: %v", err)
	}
	log.Println("worker shut down")
}
