package database

import (
	"database/sql"
	"log"
	"time"

	"roadmapper/configs"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ConnectDB memilih backend sekali saat startup berdasarkan config:
// mode debug memakai SQLite (file lokal), mode production memakai
// PostgreSQL lewat DATABASE_URL. Nama driver dikembalikan supaya layer
// repository tahu dialek DDL yang dipakai.
func ConnectDB(cfg configs.Config) (*sql.DB, string) {
	if cfg.Debug {
		return connectSQLite(cfg.SQLitePath), "sqlite3"
	}
	return connectPostgres(cfg.DatabaseURL), "postgres"
}

func connectPostgres(url string) *sql.DB {
	db, err := sql.Open("postgres", url)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	return db
}

func connectSQLite(path string) *sql.DB {
	// _foreign_keys=on diperlukan agar ON DELETE SET NULL pada
	// tasks.category_id benar-benar jalan di SQLite
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// SQLite file-based tidak suka banyak writer paralel
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	return db
}
