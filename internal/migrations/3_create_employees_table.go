package migrations

import (
	"context"
	"database/sql"
)

const createEmployeesTableQuery = `CREATE TABLE IF NOT EXISTS employees (
	id BIGINT NOT NULL AUTO_INCREMENT,
	user_id BIGINT NOT NULL,
	fields JSON NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	KEY employees_user_id (user_id),
	CONSTRAINT employees_user_id FOREIGN KEY (user_id)
		REFERENCES users (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

func createEmployeesTable() Migrate {
	return Migrate{
		UP: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, createEmployeesTableQuery)
			return err
		},
	}
}
