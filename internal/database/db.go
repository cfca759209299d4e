package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/applypilot/applypilot-web/internal/models"
)

// Connect opens the watcher-local postgres database and migrates its tables.
// Jobs, applications and resumes are NOT in here; those live behind the core
// backend. This DB only keeps what the watcher needs between restarts.
func Connect(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connection established")

	log.Println("Running migrations...")
	if err := db.AutoMigrate(&models.WatcherState{}, &models.ProcessedEmail{}, &models.ApplicationEvent{}); err != nil {
		log.Fatal("Migration failed:", err)
	}
	return db
}
