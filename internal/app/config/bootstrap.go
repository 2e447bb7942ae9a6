package config

import (
	"context"
	"database/sql"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	PostgresDB     *sql.DB
	MongoDB        *mongo.Client
	Redis          *redis.Client
	Minio          *minio.Client
	RabbitMQ       *amqp091.Connection
	Logger         *zap.Logger
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkerStop if set will be called during Shutdown to stop the checkout expiry worker
	WorkerStop func()
	// TracerShutdown flushes pending spans
	TracerShutdown func(context.Context) error
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.WorkerStop != nil {
		b.WorkerStop()
		log.Println("Successfully stopped checkout expiry worker")
	}

	if b.TracerShutdown != nil {
		if err := b.TracerShutdown(ctx); err != nil {
			return err
		}
		log.Println("Successfully flushing tracer provider")
	}

	err := b.Redis.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Redis")

	err = b.RabbitMQ.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing RabbitMQ")

	err = b.MongoDB.Disconnect(ctx)
	if err != nil {
		return err
	}
	log.Println("Successfully closing MongoDB")

	err = b.PostgresDB.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing PostgresDB")

	_ = b.Logger.Sync()
	log.Println("Successfully closing Logger")

	return nil
}
