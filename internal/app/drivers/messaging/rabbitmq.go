package messaging

import (
	"log"
	"medmarket-service/internal/app/config"
	"net"
	"net/url"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func NewRabbitMQ(driverConfig *config.DriverConfig) *amqp091.Connection {
	cfg := driverConfig.RabbitMQ
	uri := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
	}

	conn, err := amqp091.DialConfig(uri.String(), amqp091.Config{
		Vhost:     cfg.VHost,
		Heartbeat: time.Duration(cfg.Heartbeat) * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		log.Fatalf("Failed to connect to rabbitMQ: %s", err.Error())
	}
	log.Printf("Successfully connected to rabbitMQ vhost %s", cfg.VHost)
	return conn
}
