package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal/data"
)

func (s *mySql) FormFieldCreate(ctx context.Context, createdBy int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error) {
	var columns, values []string
	var args []any

	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	if formFieldPartial.Label != nil {
		args = append(args, formFieldPartial.Label)
		columns = append(columns, "label")
		values = append(values, "?")
	}
	if formFieldPartial.FieldType != nil {
		args = append(args, formFieldPartial.FieldType)
		columns = append(columns, "field_type")
		values = append(values, "?")
	}
	if formFieldPartial.Required != nil {
		args = append(args, formFieldPartial.Required)
		columns = append(columns, "required")
		values = append(values, "?")
	}
	if formFieldPartial.Order != nil {
		args = append(args, formFieldPartial.Order)
		columns = append(columns, "sort_order")
		values = append(values, "?")
	}
	args = append(args, createdBy, time.Now())
	columns = append(columns, "created_by", "created_at")
	values = append(values, "?", "?")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableFormFields,
		strings.Join(columns, ","), strings.Join(values, ","))
	result, err := s.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	fieldId, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.FormFieldRead(ctx, fieldId)
}

func (s *mySql) FormFieldRead(ctx context.Context, fieldId int64) (*data.FormField, error) {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`SELECT id, label, field_type, required, sort_order,
		created_by, created_at FROM %s WHERE id = ?;`,
		tableFormFields)
	row := s.QueryRowContext(ctx, query, fieldId)
	return formFieldScan(row.Scan)
}

func (s *mySql) FormFieldsSearch(ctx context.Context, createdBy int64) ([]*data.FormField, error) {
	var formFields []*data.FormField

	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`SELECT id, label, field_type, required, sort_order,
		created_by, created_at FROM %s WHERE created_by = ? ORDER BY sort_order, id;`,
		tableFormFields)
	rows, err := s.QueryContext(ctx, query, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		formField, err := formFieldScan(rows.Scan)
		if err != nil {
			return nil, err
		}
		formFields = append(formFields, formField)
	}
	return formFields, rows.Err()
}

func (s *mySql) FormFieldUpdate(ctx context.Context, fieldId int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error) {
	var updates []string
	var args []any

	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	if formFieldPartial.Label != nil {
		args = append(args, formFieldPartial.Label)
		updates = append(updates, "label = ?")
	}
	if formFieldPartial.FieldType != nil {
		args = append(args, formFieldPartial.FieldType)
		updates = append(updates, "field_type = ?")
	}
	if formFieldPartial.Required != nil {
		args = append(args, formFieldPartial.Required)
		updates = append(updates, "required = ?")
	}
	if formFieldPartial.Order != nil {
		args = append(args, formFieldPartial.Order)
		updates = append(updates, "sort_order = ?")
	}
	if len(updates) == 0 {
		return s.FormFieldRead(ctx, fieldId)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", tableFormFields,
		strings.Join(updates, ","))
	args = append(args, fieldId)
	if _, err := s.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	return s.FormFieldRead(ctx, fieldId)
}

func (s *mySql) FormFieldDelete(ctx context.Context, fieldId int64) error {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?;`, tableFormFields)
	result, err := s.ExecContext(ctx, query, fieldId)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return data.ErrNotFound
	}
	return nil
}

// FormFieldsReorder sets each field's sort order to its index in fieldIds;
// ids not owned by createdBy are left untouched.
func (s *mySql) FormFieldsReorder(ctx context.Context, createdBy int64, fieldIds []int64) error {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	tx, err := s.BeginTx(ctx, &sql.TxOptions{Isolation: databaseIsolation})
	if err != nil {
		return err
	}
	defer tx.Rollback()
	query := fmt.Sprintf("UPDATE %s SET sort_order = ? WHERE id = ? AND created_by = ?",
		tableFormFields)
	for index, fieldId := range fieldIds {
		if _, err := tx.ExecContext(ctx, query, index, fieldId, createdBy); err != nil {
			return err
		}
	}
	return tx.Commit()
}
