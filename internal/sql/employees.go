package sql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal/data"
)

func (s *mySql) EmployeeCreate(ctx context.Context, userId int64, employeePartial data.EmployeePartial) (*data.Employee, error) {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	fields := map[string]data.FieldValue{}
	if employeePartial.Fields != nil {
		fields = *employeePartial.Fields
	}
	fieldsJson, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`INSERT INTO %s (user_id, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?)`, tableEmployees)
	now := time.Now()
	result, err := s.ExecContext(ctx, query, userId, fieldsJson, now, now)
	if err != nil {
		return nil, err
	}
	employeeId, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.EmployeeRead(ctx, employeeId)
}

func (s *mySql) EmployeeRead(ctx context.Context, employeeId int64) (*data.Employee, error) {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`SELECT id, user_id, fields, created_at, updated_at
		FROM %s WHERE id = ?;`, tableEmployees)
	row := s.QueryRowContext(ctx, query, employeeId)
	return employeeScan(row.Scan)
}

func (s *mySql) EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error) {
	var employees []*data.Employee

	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	criteria, args := employeeCriteria(search)
	query := fmt.Sprintf(`SELECT id, user_id, fields, created_at, updated_at
		FROM %s %s ORDER BY id;`, tableEmployees, criteria)
	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		employee, err := employeeScan(rows.Scan)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (s *mySql) EmployeeUpdate(ctx context.Context, employeeId int64, employeePartial data.EmployeePartial) (*data.Employee, error) {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	if employeePartial.Fields == nil {
		return s.EmployeeRead(ctx, employeeId)
	}
	fieldsJson, err := json.Marshal(*employeePartial.Fields)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("UPDATE %s SET fields = ?, updated_at = ? WHERE id = ?",
		tableEmployees)
	if _, err := s.ExecContext(ctx, query, fieldsJson, time.Now(), employeeId); err != nil {
		return nil, err
	}
	return s.EmployeeRead(ctx, employeeId)
}

func (s *mySql) EmployeeDelete(ctx context.Context, employeeId int64) error {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?;`, tableEmployees)
	result, err := s.ExecContext(ctx, query, employeeId)
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
