package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sthmu/Student-Manager/config"
	"github.com/sthmu/Student-Manager/models"
)

// Connect opens the Postgres connection. A database that is down at
// startup is a hard error (early fail); schema bootstrap problems are
// reported by Bootstrap separately and never abort the process.
func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	return db
}

// Bootstrap creates/updates the schema idempotently: AutoMigrate adds
// missing tables, columns and unique indexes, then legacy leftovers
// from the pre-hash era are cleaned up. Safe to run on every startup.
func Bootstrap(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Student{}); err != nil {
		log.Printf("[migrate] warn: auto migrate failed: %v", err)
		return err
	}

	// Drop legacy users.password (plaintext) now that password_hash is
	// the only credential column.
	if db.Migrator().HasColumn(&models.User{}, "password") {
		if err := db.Migrator().DropColumn(&models.User{}, "password"); err != nil {
			log.Printf("[migrate] warn: drop users.password failed: %v", err)
		} else {
			log.Printf("[migrate] dropped legacy column users.password")
		}
	}
	return nil
}

// Status is the health-check projection of the database.
type Status struct {
	Connected bool  `json:"connected"`
	Tables    int   `json:"tables"`
	Users     int64 `json:"users"`
	Students  int64 `json:"students"`
}

func GetStatus(db *gorm.DB) Status {
	st := Status{}

	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		return st
	}
	st.Connected = true

	for _, m := range []any{&models.User{}, &models.Student{}} {
		if db.Migrator().HasTable(m) {
			st.Tables++
		}
	}
	db.Model(&models.User{}).Count(&st.Users)
	db.Model(&models.Student{}).Count(&st.Students)
	return st
}
