package database

import (
	"errors"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"chat-rooms/internal/models"
)

func (d *Database) Connect() error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		return err
	}

	d.db = db

	return nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Room{}, &models.Message{})
}
