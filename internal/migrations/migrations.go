package migrations

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/template"
	"time"

	"github.com/curaious/ticktrack/internal/db"
	"github.com/jmoiron/sqlx"
)

// migration ..
type migration struct {
	version string
	done    bool
	up      func(*sqlx.Tx) error
	down    func(*sqlx.Tx) error
}

// Migrator ..
type Migrator struct {
	db         *sqlx.DB
	versions   []string
	migrations map[string]*migration
}

var m = &Migrator{
	versions:   []string{},
	migrations: map[string]*migration{},
}

const migrationTemplate = `package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "{{.Version}}",
		up:      mig_{{.Version}}_{{.Title}}_up,
		down:    mig_{{.Version}}_{{.Title}}_down,
	})
}

func mig_{{.Version}}_{{.Title}}_up(tx *sqlx.Tx) error {
	return nil
}

func mig_{{.Version}}_{{.Title}}_down(tx *sqlx.Tx) error {
	return nil
}
`

// NewMigrator loads the completed versions from metadata.schema_migrations.
func NewMigrator(conn *sqlx.DB) (*Migrator, error) {
	m.db = conn

	_, err := m.db.Exec(`CREATE SCHEMA IF NOT EXISTS metadata`)
	if err != nil {
		slog.Error("Unable to create metadata schema", slog.Any("error", err))
		return nil, err
	}

	_, err = m.db.Exec(`CREATE TABLE IF NOT EXISTS metadata.schema_migrations (
		version varchar(255)
	);`)
	if err != nil {
		slog.Error("Unable to create `schema_migrations` table", slog.Any("error", err))
		return nil, err
	}

	rows, err := m.db.Query("SELECT version FROM metadata.schema_migrations;")
	if err != nil {
		slog.Error("Unable to fetch completed migrations", slog.Any("error", err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var version string
		err := rows.Scan(&version)
		if err != nil {
			slog.Error("Unable to read row", slog.Any("error", err))
			return nil, err
		}

		if m.migrations[version] != nil {
			m.migrations[version].done = true
		}
	}

	return m, rows.Err()
}

// addMigration keeps versions sorted ascending.
func (m *Migrator) addMigration(mg *migration) {
	m.migrations[mg.version] = mg

	index := 0

	for index < len(m.versions) {
		if m.versions[index] > mg.version {
			break
		}

		index++
	}

	m.versions = append(m.versions, mg.version)
	copy(m.versions[index+1:], m.versions[index:])
	m.versions[index] = mg.version
}

// Versions returns the registered versions in the order they are applied.
func (m *Migrator) Versions() []string {
	out := make([]string, len(m.versions))
	copy(out, m.versions)
	return out
}

// MigrationStatus ..
func (m *Migrator) MigrationStatus() error {
	for _, v := range m.versions {
		mg := m.migrations[v]

		if mg.done {
			slog.Info(fmt.Sprintf("Migration %s... completed", v))
		} else {
			slog.Info(fmt.Sprintf("Migration %s... pending", v))
		}
	}

	return nil
}

// CreateMigration writes an empty migration file into ./internal/migrations.
func CreateMigration(title string) error {
	var out bytes.Buffer

	version := time.Now().Format("20060102150405")

	in := struct {
		Version string
		Title   string
	}{
		Version: version,
		Title:   title,
	}

	t := template.Must(template.New("migration").Parse(migrationTemplate))
	err := t.Execute(&out, in)
	if err != nil {
		slog.Error("Unable to execute migration template", slog.Any("error", err))
		return err
	}

	f, err := os.Create(fmt.Sprintf("./internal/migrations/%s_%s.go", version, title))
	if err != nil {
		slog.Error("Unable to create the migration file", slog.Any("error", err))
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(out.String()); err != nil {
		slog.Error("Unable to write to the migration file", slog.Any("error", err))
		return err
	}

	slog.Info("Generated new migration file...", slog.String("filename", f.Name()))
	return nil
}

// Up applies pending migrations; step 0 applies all of them.
func (m *Migrator) Up(step int) error {
	return db.WithTx(context.TODO(), m.db, func(tx *sqlx.Tx) error {
		count := 0
		for _, v := range m.versions {
			if step > 0 && count == step {
				break
			}

			mg := m.migrations[v]
			l := slog.With(slog.String("version", mg.version))

			if mg.done {
				continue
			}

			l.Info("Running up migration...")
			if err := mg.up(tx); err != nil {
				l.Info("Error occured while running migration", slog.Any("error", err))
				return err
			}

			if _, err := tx.Exec("INSERT INTO metadata.schema_migrations VALUES($1);", mg.version); err != nil {
				l.Error("Failed to insert completed migrations to `metadata.schema_migrations`", slog.Any("error", err))
				return err
			}

			mg.done = true
			count++
			l.Info("Finished up migration...")
		}

		return nil
	})
}

// Down reverts applied migrations; step 0 reverts all of them.
func (m *Migrator) Down(step int) error {
	return db.WithTx(context.TODO(), m.db, func(tx *sqlx.Tx) error {
		count := 0
		for _, v := range reverse(m.Versions()) {
			if step > 0 && count == step {
				break
			}

			mg := m.migrations[v]
			l := slog.With(slog.String("version", mg.version))

			if !mg.done {
				continue
			}

			l.Info("Running down migration...")
			if err := mg.down(tx); err != nil {
				l.Info("Error occured while running migration", slog.Any("error", err))
				return err
			}

			if _, err := tx.Exec("DELETE FROM metadata.schema_migrations WHERE version = $1;", mg.version); err != nil {
				l.Info("Failed to remove reverted migrations from `metadata.schema_migrations`", slog.Any("error", err))
				return err
			}

			mg.done = false
			count++
			l.Info("Finished down migration...")
		}

		return nil
	})
}

func reverse(arr []string) []string {
	for i := 0; i < len(arr)/2; i++ {
		j := len(arr) - i - 1
		arr[i], arr[j] = arr[j], arr[i]
	}
	return arr
}
