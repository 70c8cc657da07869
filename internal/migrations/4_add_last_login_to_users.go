package migrations

import (
	"context"
	"database/sql"
)

func addLastLoginToUsers() Migrate {
	return Migrate{
		UP: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				"ALTER TABLE users ADD COLUMN last_login DATETIME DEFAULT NULL;")
			return err
		},
	}
}
