package db

import (
	"fmt"
	"log"
	"time"

	"agora/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=agora port=5432 sslmode=disable"
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Println("Database connection established")

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the tables used by the store.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Topic{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Println("Database migration completed")
	return nil
}
