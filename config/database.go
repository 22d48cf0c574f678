package config

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB stays nil when no DB_URL is configured; handlers that need the store
// report a 500 in that case instead of the process refusing to start.
var DB *gorm.DB

func ConnectDB(dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}

	DB = db
	return nil
}
