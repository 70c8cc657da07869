package migrations

import (
	"context"
	"database/sql"
)

const createFormFieldsTableQuery = `CREATE TABLE IF NOT EXISTS form_fields (
	id BIGINT NOT NULL AUTO_INCREMENT,
	label VARCHAR(100) NOT NULL,
	field_type VARCHAR(20) NOT NULL DEFAULT 'text',
	required TINYINT(1) NOT NULL DEFAULT 1,
	sort_order INT UNSIGNED NOT NULL DEFAULT 0,
	created_by BIGINT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	KEY form_fields_created_by_sort_order (created_by, sort_order),
	CONSTRAINT form_fields_created_by FOREIGN KEY (created_by)
		REFERENCES users (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

func createFormFieldsTable() Migrate {
	return Migrate{
		UP: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, createFormFieldsTableQuery)
			return err
		},
	}
}
