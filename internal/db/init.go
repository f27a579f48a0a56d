package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"dashboard/internal/models"
)

// Statements are executed one at a time; pgx's extended protocol rejects
// multi-statement strings.
var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user'
	)`,
	`CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id)
	)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user'
	)`,
	`CREATE TABLE IF NOT EXISTS records (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id)
	)`,
}

// Init creates the tables if needed and, against an empty store, seeds the
// default admin and regular user plus two sample records.
func Init(db *sqlx.DB) error {
	schema := schemaSQLite
	if db.DriverName() == "pgx" {
		schema = schemaPostgres
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("db: create tables: %w", err)
		}
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM users`); err != nil {
		return fmt.Errorf("db: count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := seed(db); err != nil {
		return fmt.Errorf("db: seed: %w", err)
	}
	return nil
}

func seed(db *sqlx.DB) error {
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	userHash, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertUser := tx.Rebind(`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`)
	if _, err := tx.Exec(insertUser, "admin", string(adminHash), models.RoleAdmin); err != nil {
		return err
	}
	if _, err := tx.Exec(insertUser, "user", string(userHash), models.RoleUser); err != nil {
		return err
	}

	var userID int64
	if err := tx.Get(&userID, tx.Rebind(`SELECT id FROM users WHERE username = ?`), "user"); err != nil {
		return err
	}

	insertRecord := tx.Rebind(`INSERT INTO records (title, description, user_id) VALUES (?, ?, ?)`)
	if _, err := tx.Exec(insertRecord, "Sample Record 1", "This is a sample record", userID); err != nil {
		return err
	}
	if _, err := tx.Exec(insertRecord, "Sample Record 2", "Another sample record", userID); err != nil {
		return err
	}

	return tx.Commit()
}
