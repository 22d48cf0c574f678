package models

import (
	"time"
)

type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name string `gorm:"not null" json:"name"`
	// Nullable so the unique index only bites when an email is present;
	// Postgres and SQLite both allow any number of NULLs under a unique index.
	Email   *string `gorm:"uniqueIndex" json:"email"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`

	CreatedAt time.Time `json:"createdAt"`
}
