package migrations

import (
	"context"
	"database/sql"
)

const createUsersTableQuery = `CREATE TABLE IF NOT EXISTS users (
	id BIGINT NOT NULL AUTO_INCREMENT,
	email VARCHAR(254) NOT NULL,
	first_name VARCHAR(30) NOT NULL,
	last_name VARCHAR(30) NOT NULL,
	phone VARCHAR(15) DEFAULT NULL,
	address TEXT DEFAULT NULL,
	password VARCHAR(128) NOT NULL,
	is_staff TINYINT(1) NOT NULL DEFAULT 0,
	is_superuser TINYINT(1) NOT NULL DEFAULT 0,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	date_joined DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	UNIQUE KEY email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

func createUsersTable() Migrate {
	return Migrate{
		UP: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, createUsersTableQuery)
			return err
		},
	}
}
