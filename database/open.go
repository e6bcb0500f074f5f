package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio/config"
	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/models"
)

// Open connects to the database selected by DB_TYPE, registers any read
// replicas listed in DB_REPLICA_URLS and migrates the schema.
func Open(c map[string]string) (*gorm.DB, error) {
	dbType := config.GetString(c, "DB_TYPE", "sqlite")

	dialector, err := dialectorFor(dbType, c)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("connect to", dbType+" database", err)
	}

	if replicas := config.GetList(c, "DB_REPLICA_URLS"); len(replicas) > 0 && dbType != "sqlite" {
		var replicaDialectors []gorm.Dialector
		for _, dsn := range replicas {
			replicaDialectors = append(replicaDialectors, postgres.New(postgres.Config{
				DSN:                  dsn,
				PreferSimpleProtocol: true,
			}))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicaDialectors,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("registering read replicas: %w", err)
		}
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, errs.NewDatabaseError("test", "database connection", err)
	}

	if err := models.Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func dialectorFor(dbType string, c map[string]string) (gorm.Dialector, error) {
	switch strings.ToLower(dbType) {
	case "supa":
		connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
		return postgres.New(postgres.Config{DSN: connStr, PreferSimpleProtocol: true}), nil
	case "postgres":
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return nil, errs.NewEnvironmentVariableError("DATABASE_URL")
		}
		return postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), nil
	case "sqlite":
		path := config.GetString(c, "SQLITE_PATH", "portfolio.db")
		return sqlite.Open(path + "?_foreign_keys=on"), nil
	default:
		return nil, errs.NewBadRequestError(fmt.Sprintf("unsupported DB_TYPE %q", dbType))
	}
}
