package db

import (
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/strideapp/stride/migrations"
	"gorm.io/gorm"
)

const schemaLedgerSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

type migrationFile struct {
	version int
	name    string
	script  string
}

// applyEmbeddedMigrations runs every embedded NNNN_description.sql file
// that is not yet recorded in schema_migrations, in version order. Each
// file runs inside one transaction together with its ledger row.
func applyEmbeddedMigrations(database *gorm.DB) error {
	if err := database.Exec(schemaLedgerSQL).Error; err != nil {
		return fmt.Errorf("create schema ledger: %w", err)
	}

	files, err := readMigrationFiles()
	if err != nil {
		return err
	}

	var applied []int
	if err := database.Table("schema_migrations").Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("read schema ledger: %w", err)
	}
	alreadyApplied := make(map[int]bool, len(applied))
	for _, version := range applied {
		alreadyApplied[version] = true
	}

	for _, file := range files {
		if alreadyApplied[file.version] {
			continue
		}
		if err := runMigration(database, file); err != nil {
			return err
		}
	}
	return nil
}

func readMigrationFiles() ([]migrationFile, error) {
	names, err := fs.Glob(migrations.Files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list embedded migrations: %w", err)
	}

	files := make([]migrationFile, 0, len(names))
	seen := make(map[int]string, len(names))
	for _, name := range names {
		version, ok := migrationVersion(name)
		if !ok {
			return nil, fmt.Errorf("migration %s: name must start with a numeric version", name)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration %s: version %d already used by %s", name, version, other)
		}
		seen[version] = name

		raw, err := fs.ReadFile(migrations.Files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		files = append(files, migrationFile{version: version, name: name, script: string(raw)})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}

func migrationVersion(name string) (int, bool) {
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0, false
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, false
	}
	return version, true
}

func runMigration(database *gorm.DB, file migrationFile) error {
	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range sqlStatements(file.script) {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s: %w", file.name, err)
			}
		}
		insert := `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`
		if err := tx.Exec(insert, file.version, file.name).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", file.name, err)
		}
		return nil
	})
}

// sqlStatements splits a migration script on statement-terminating
// semicolons. Good enough for our DDL; none of it embeds literal
// semicolons.
func sqlStatements(script string) []string {
	pieces := strings.Split(script, ";")
	statements := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}
	return statements
}
