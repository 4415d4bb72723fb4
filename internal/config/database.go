package config

import (
	"log"
	"os"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDatabase connects to Postgres using DATABASE_DSN and migrates
// the appointment tables.
func InitDatabase() *gorm.DB {
	dsn := os.Getenv("DATABASE_DSN")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Patient{}, &domain.Doctor{}, &domain.Appointment{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}
