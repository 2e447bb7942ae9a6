package migration

import (
	"database/sql"
	"os"
	"path/filepath"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

const MigrationsDir = "internal/migration"

// Run applies pending migrations found under MigrationsDir relative to the working directory.
func Run(db *sql.DB, log *logrus.Logger) {
	n, err := Apply(db, MigrationsDir, migrate.Up)
	if err != nil {
		log.Fatalf("Error executing migration: %v", err)
	}

	log.WithField("applied", n).Info("Migrations applied")
}

func Apply(db *sql.DB, dir string, direction migrate.MigrationDirection) (int, error) {
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return 0, err
		}
		dir = filepath.Join(wd, dir)
	}

	migrations := &migrate.FileMigrationSource{Dir: dir}
	migrate.SetTable("schema_migrations")
	return migrate.Exec(db, "postgres", migrations, direction)
}
