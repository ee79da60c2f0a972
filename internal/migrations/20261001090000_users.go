package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20261001090000",
		up:      mig_20261001090000_users_up,
		down:    mig_20261001090000_users_down,
	})
}

func mig_20261001090000_users_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            firebase_uid VARCHAR(128) NOT NULL,
            email VARCHAR(255) NOT NULL,
            display_name VARCHAR(255),
            avatar_url TEXT,
            timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
            time_format VARCHAR(8) NOT NULL DEFAULT '24h',
            theme VARCHAR(16) NOT NULL DEFAULT 'dark',
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
            CONSTRAINT users_firebase_uid_key UNIQUE (firebase_uid)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
    `)
	return err
}

func mig_20261001090000_users_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS users;`)
	return err
}
