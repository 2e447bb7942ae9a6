package database

import (
	"database/sql"
	"fmt"
	"log"
	"medmarket-service/internal/app/config"
	"time"

	_ "github.com/lib/pq"
)

func NewPostgresDB(driverConfig *config.DriverConfig) *sql.DB {
	connectionString := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		driverConfig.PostgresDB.Host,
		driverConfig.PostgresDB.Port,
		driverConfig.PostgresDB.Username,
		driverConfig.PostgresDB.Password,
		driverConfig.PostgresDB.DBName,
		driverConfig.PostgresDB.SSLMode,
	)

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		log.Fatalf("Failed to open postgres database connection: %s", err.Error())
	}

	db.SetMaxOpenConns(driverConfig.PostgresDB.MaxOpenConns)
	db.SetMaxIdleConns(driverConfig.PostgresDB.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(driverConfig.PostgresDB.ConnMaxLifetime) * time.Minute)

	err = db.Ping()
	if err != nil {
		log.Fatalf("Failed to connect to postgres database: %s", err.Error())
	}

	log.Println("Successfully connected to postgres database")

	return db
}
