package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB holds the database connection
type DB struct {
	Gorm *gorm.DB
}

// InitDB opens the database named by cfg.DatabaseURL
func InitDB(cfg *Config) (*DB, error) {
	db, err := OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &DB{Gorm: db}, nil
}

// OpenDatabase opens a PostgreSQL database for postgres:// URLs and a SQLite
// file for sqlite:/// URLs (or bare paths).
func OpenDatabase(databaseURL string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	if strings.HasPrefix(databaseURL, "postgres") {
		db, err := initPostgres(databaseURL, gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return db, nil
	}

	db, err := initSQLite(sqlitePath(databaseURL), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return db, nil
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string, gormConfig *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to PostgreSQL!")
	return db, nil
}

// initSQLite opens a SQLite database file with foreign keys enforced
func initSQLite(path string, gormConfig *gorm.Config) (*gorm.DB, error) {
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	log.Printf("Opened SQLite database %s", path)
	return db, nil
}

func sqlitePath(databaseURL string) string {
	// sqlite:///./x.db -> ./x.db, sqlite:////abs/x.db -> /abs/x.db
	if strings.HasPrefix(databaseURL, "sqlite:///") {
		return strings.TrimPrefix(databaseURL, "sqlite:///")
	}
	return databaseURL
}

// Ping checks that the database is reachable
func (db *DB) Ping() error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CloseDB closes the database connection
func (db *DB) CloseDB() {
	if db.Gorm == nil {
		return
	}
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		log.Printf("Error getting SQL DB from GORM: %v\n", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v\n", err)
	} else {
		log.Println("Database connection closed.")
	}
}
