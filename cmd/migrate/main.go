package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"recall/internal/config"
	"recall/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// Applies the schema for the configured environment's table prefix.
// Idempotent: every statement is IF NOT EXISTS, so re-running against
// an up-to-date database is a no-op.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = conn.Close(ctx) }() // Error ignored: script exiting

	for _, stmt := range schemaStatements(tables) {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			log.Fatalf("Migration failed: %v\nstatement:\n%s", err, stmt)
		}
	}

	fmt.Fprintf(os.Stdout, "Schema applied (prefix: %s)\n", cfg.TablePrefix)
}

func schemaStatements(t *postgres.TableNames) []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				name TEXT,
				role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, t.Users),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				parent_id TEXT REFERENCES %s(id) ON DELETE CASCADE,
				title TEXT NOT NULL CHECK (length(title) BETWEEN 1 AND 500),
				content TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				CHECK (id != parent_id)
			)
		`, t.Pages, t.Users, t.Pages),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_id_idx ON %s (user_id)`, t.Pages, t.Pages),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_id_idx ON %s (parent_id)`, t.Pages, t.Pages),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				page_id TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				owner_id TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				shared_with_user_id TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				permission_level TEXT NOT NULL CHECK (permission_level IN ('view_only', 'edit')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				UNIQUE (page_id, shared_with_user_id),
				CHECK (owner_id != shared_with_user_id)
			)
		`, t.Shares, t.Pages, t.Users, t.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_shared_with_idx ON %s (shared_with_user_id)`, t.Shares, t.Shares),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				page_id TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				user_id TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				question TEXT NOT NULL CHECK (length(question) > 0),
				answer TEXT NOT NULL CHECK (length(answer) > 0),
				last_reviewed_at TIMESTAMPTZ,
				next_review_at TIMESTAMPTZ NOT NULL,
				review_count INTEGER NOT NULL DEFAULT 0 CHECK (review_count >= 0),
				mastery_score INTEGER NOT NULL DEFAULT 0 CHECK (mastery_score BETWEEN 0 AND 100),
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, t.Flashcards, t.Pages, t.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_page_id_idx ON %s (page_id)`, t.Flashcards, t.Flashcards),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_due_idx ON %s (next_review_at)`, t.Flashcards, t.Flashcards),
	}
}
