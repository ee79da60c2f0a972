package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"

	"github.com/curaious/ticktrack/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DSN builds the postgres connection string from the config.
func DSN(conf *config.Config) string {
	str := fmt.Sprintf("postgresql://%v:%v@%v:%v/%v", conf.DB_USERNAME, conf.DB_PASSWORD, conf.DB_HOST, conf.DB_PORT, conf.DB_NAME)
	if conf.DISABLE_TLS == "true" {
		str = str + "?sslmode=disable"
	}
	return str
}

func NewConn(conf *config.Config) *sqlx.DB {
	slog.Info("Connecting to database")

	// Connect to database
	db, err := sqlx.Open("postgres", DSN(conf))
	if err != nil {
		log.Fatal(err)
	}

	db.SetMaxOpenConns(conf.DB_MAX_OPEN_CONNS)
	db.SetMaxIdleConns(conf.DB_MAX_IDLE_CONNS)
	db.SetConnMaxIdleTime(conf.DB_CONN_MAX_IDLE_TIME)

	err = db.Ping()
	if err != nil {
		log.Fatalln("Unable to connect to database", err.Error())
	}

	slog.Info("Connected to database", slog.Int("max_open_conns", conf.DB_MAX_OPEN_CONNS))

	return db
}

// WithTx runs fn inside a transaction, committing on success and rolling back on error.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
