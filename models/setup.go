package models

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDataBase Open the database given by driver ("sqlite" or "mysql")
// and run the schema migration. The DSN can be overridden with the
// LABELSCOPE_DB_DSN environment variable (optionally via a .env file).
func ConnectDataBase(driver string, dsn string) {
	// A missing .env file is fine, the YAML config carries the defaults.
	_ = godotenv.Load()
	if env := os.Getenv("LABELSCOPE_DB_DSN"); env != "" {
		dsn = env
	}

	var err error
	switch driver {
	case "mysql":
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite", "":
		DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		log.Fatal(fmt.Sprintf("Unsupported database driver %q", driver))
	}
	if err != nil {
		log.Fatal(fmt.Sprintf("Cannot connect %s database at %s: %s", driver, dsn, err))
	}
	log.Info(fmt.Sprintf("Connected %s database at %s", driver, dsn))

	if err := Migrate(DB); err != nil {
		log.Fatal("Migration error: ", err)
	}
}

// Migrate Create or update the schema for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Project{},
		&Member{},
		&Example{},
		&LabelType{},
		&Category{},
		&Span{},
		&TextLabel{},
		&Relation{},
		&BoundingBox{},
		&Segmentation{},
	)
}
