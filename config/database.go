package config

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var DB *sql.DB

func ConnectDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("Failed to open Postgres connection: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Database connection established")

	DB = db
	createTables()
}

func createTables() {
	// Raw SQL to construct the schema natively
	userTableQuery := `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		full_name VARCHAR(255) NOT NULL,
		username VARCHAR(255) UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		avatar_url TEXT NULL,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		is_premium BOOLEAN NOT NULL DEFAULT FALSE,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		xp INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	tokenTableQuery := `
	CREATE TABLE IF NOT EXISTS tokens (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token TEXT NOT NULL,
		type VARCHAR(50) NOT NULL,
		is_used BOOLEAN NOT NULL DEFAULT FALSE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	// At most one live verification code per user; resends upsert against
	// this index instead of delete-then-insert.
	tokenIndexQuery := `
	CREATE UNIQUE INDEX IF NOT EXISTS tokens_user_verification_idx
	ON tokens (user_id, type) WHERE type = 'verification';`

	announcementTableQuery := `
	CREATE TABLE IF NOT EXISTS announcements (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		image_url TEXT NULL,
		banner_url TEXT NULL,
		video_url TEXT NULL,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	leaderboardTableQuery := `
	CREATE TABLE IF NOT EXISTS leaderboards (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		xp_snapshot INTEGER NOT NULL DEFAULT 0,
		level_snapshot INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	for _, query := range []string{
		userTableQuery,
		tokenTableQuery,
		tokenIndexQuery,
		announcementTableQuery,
		leaderboardTableQuery,
	} {
		if _, err := DB.Exec(query); err != nil {
			log.Printf("Failed to execute schema statement: %v\n", err)
		}
	}
}
