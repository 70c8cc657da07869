package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal/data"
)

func (s *mySql) userCreate(ctx context.Context, userPartial data.UserPartial,
	passwordHash string, isStaff, isSuperuser bool) (*data.User, error) {
	var columns, values []string
	var args []any

	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	if userPartial.Email != nil {
		args = append(args, userPartial.Email)
		columns = append(columns, "email")
		values = append(values, "?")
	}
	if userPartial.FirstName != nil {
		args = append(args, userPartial.FirstName)
		columns = append(columns, "first_name")
		values = append(values, "?")
	}
	if userPartial.LastName != nil {
		args = append(args, userPartial.LastName)
		columns = append(columns, "last_name")
		values = append(values, "?")
	}
	if userPartial.Phone != nil {
		args = append(args, userPartial.Phone)
		columns = append(columns, "phone")
		values = append(values, "?")
	}
	if userPartial.Address != nil {
		args = append(args, userPartial.Address)
		columns = append(columns, "address")
		values = append(values, "?")
	}
	args = append(args, passwordHash, isStaff, isSuperuser, true, time.Now())
	columns = append(columns, "password", "is_staff", "is_superuser", "is_active", "date_joined")
	values = append(values, "?", "?", "?", "?", "?")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableUsers,
		strings.Join(columns, ","), strings.Join(values, ","))
	result, err := s.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, data.ErrEmailExists
		}
		return nil, err
	}
	userId, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.UserRead(ctx, userId)
}

func (s *mySql) UserCreate(ctx context.Context, userPartial data.UserPartial, passwordHash string) (*data.User, error) {
	return s.userCreate(ctx, userPartial, passwordHash, false, false)
}

func (s *mySql) SuperuserCreate(ctx context.Context, userPartial data.UserPartial, passwordHash string) (*data.User, error) {
	return s.userCreate(ctx, userPartial, passwordHash, true, true)
}

func (s *mySql) UserRead(ctx context.Context, userId int64) (*data.User, error) {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`SELECT id, email, first_name, last_name, phone, address,
		is_staff, is_superuser, is_active, date_joined, last_login FROM %s WHERE id = ?;`,
		tableUsers)
	row := s.QueryRowContext(ctx, query, userId)
	return userScan(row.Scan)
}

func (s *mySql) UserReadByEmail(ctx context.Context, email string) (*data.User, error) {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`SELECT id, email, first_name, last_name, phone, address,
		is_staff, is_superuser, is_active, date_joined, last_login FROM %s WHERE email = ?;`,
		tableUsers)
	row := s.QueryRowContext(ctx, query, email)
	return userScan(row.Scan)
}

func (s *mySql) UserPasswordRead(ctx context.Context, userId int64) (string, error) {
	var passwordHash string

	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf("SELECT password FROM %s WHERE id = ?;", tableUsers)
	row := s.QueryRowContext(ctx, query, userId)
	if err := row.Scan(&passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", data.ErrNotFound
		}
		return "", err
	}
	return passwordHash, nil
}

func (s *mySql) UserUpdate(ctx context.Context, userId int64, userPartial data.UserPartial) (*data.User, error) {
	var updates []string
	var args []any

	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	if userPartial.Email != nil {
		args = append(args, userPartial.Email)
		updates = append(updates, "email = ?")
	}
	if userPartial.FirstName != nil {
		args = append(args, userPartial.FirstName)
		updates = append(updates, "first_name = ?")
	}
	if userPartial.LastName != nil {
		args = append(args, userPartial.LastName)
		updates = append(updates, "last_name = ?")
	}
	if userPartial.Phone != nil {
		args = append(args, userPartial.Phone)
		updates = append(updates, "phone = ?")
	}
	if userPartial.Address != nil {
		args = append(args, userPartial.Address)
		updates = append(updates, "address = ?")
	}
	if len(updates) == 0 {
		return s.UserRead(ctx, userId)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", tableUsers,
		strings.Join(updates, ","))
	args = append(args, userId)
	if _, err := s.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return nil, data.ErrEmailExists
		}
		return nil, err
	}
	return s.UserRead(ctx, userId)
}

func (s *mySql) UserPasswordUpdate(ctx context.Context, userId int64, passwordHash string) error {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf("UPDATE %s SET password = ? WHERE id = ?", tableUsers)
	result, err := s.ExecContext(ctx, query, passwordHash, userId)
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

func (s *mySql) UserLastLoginUpdate(ctx context.Context, userId int64) error {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf("UPDATE %s SET last_login = ? WHERE id = ?", tableUsers)
	if _, err := s.ExecContext(ctx, query, time.Now(), userId); err != nil {
		return err
	}
	return nil
}

func (s *mySql) UserDelete(ctx context.Context, userId int64) error {
	ctx, cancel := s.timeoutContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?;`, tableUsers)
	result, err := s.ExecContext(ctx, query, userId)
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
