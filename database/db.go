package database

import (
	"database/sql"
	"os"
	"time"

	"finplan/backend/migrations"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// InitDB opens the sqlite database and creates the base schema. dbPath may
// be empty, in which case the default location is used; tests run against an
// in-memory database.
func InitDB(dbPath string) error {
	if os.Getenv("TEST_DB") == "1" {
		dbPath = ":memory:"
	} else if dbPath == "" {
		dbPath = "./finplan.db"
	}

	var err error
	// Connection parameters to better handle concurrent requests.
	dsn := dbPath + "?_journal=WAL&_timeout=10000&_busy_timeout=10000"
	DB, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}

	if dbPath == ":memory:" {
		// Every pooled connection would otherwise open its own empty
		// in-memory database.
		DB.SetMaxOpenConns(1)
	} else {
		DB.SetMaxOpenConns(5)
		DB.SetMaxIdleConns(5)
	}
	DB.SetConnMaxLifetime(time.Minute * 5)

	if _, err = DB.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	if _, err = DB.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return err
	}

	if err = DB.Ping(); err != nil {
		return err
	}

	if err = createBaseTables(DB); err != nil {
		return err
	}

	return migrations.RunMigrations(DB)
}

func createBaseTables(db *sql.DB) error {
	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL
	);
	`
	if _, err := db.Exec(createUsersTable); err != nil {
		return err
	}

	// skip_dates and modifications are stored as JSON text blobs, [] / {}
	// when absent.
	createTransactionsTable := `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount REAL NOT NULL,
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		frequency TEXT NOT NULL,
		interval INTEGER NOT NULL,
		end_date TEXT,
		skip_dates TEXT NOT NULL DEFAULT '[]',
		modifications TEXT NOT NULL DEFAULT '{}'
	);
	`
	if _, err := db.Exec(createTransactionsTable); err != nil {
		return err
	}

	return nil
}
