package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatitalo/quickfeedback/internal/config"
	"github.com/fatitalo/quickfeedback/internal/repository/postgres"
	"github.com/fatitalo/quickfeedback/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("Connected to database successfully")

	// Create migrations table if not exists
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create migrations table: %v\n", err)
		os.Exit(1)
	}

	migrationsFS := migrations.GetFS()
	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read migrations: %v\n", err)
		os.Exit(1)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".sql" {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	if len(sqlFiles) == 0 {
		fmt.Println("No migration files found")
		return
	}

	for _, filename := range sqlFiles {
		var count int
		err := db.QueryRow(db.Rebind("SELECT COUNT(*) FROM migrations WHERE name = ?"), filename).Scan(&count)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to check migration status: %v\n", err)
			os.Exit(1)
		}

		if count > 0 {
			fmt.Printf("Skipping %s (already executed)\n", filename)
			continue
		}

		content, err := fs.ReadFile(migrationsFS, filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read migration file %s: %v\n", filename, err)
			os.Exit(1)
		}

		fmt.Printf("Running migration: %s\n", filename)
		_, err = db.Exec(string(content))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to execute migration %s: %v\n", filename, err)
			os.Exit(1)
		}

		_, err = db.Exec(db.Rebind("INSERT INTO migrations (name) VALUES (?)"), filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to record migration %s: %v\n", filename, err)
			os.Exit(1)
		}

		fmt.Printf("Migration %s completed successfully\n", filename)
	}

	fmt.Println("All migrations completed successfully")
}
